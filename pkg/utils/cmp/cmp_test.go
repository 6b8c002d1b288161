package cmp_test

import (
	"testing"

	"github.com/mycelium-catalog/mycelium/pkg/utils/cmp"
)

func TestSliceEq(t *testing.T) {
	for name, testcase := range map[string]struct {
		a, b []string
		then bool
	}{
		"same order":      {a: []string{"a", "b"}, b: []string{"a", "b"}, then: true},
		"different order": {a: []string{"a", "b"}, b: []string{"b", "a"}, then: false},
		"different size":  {a: []string{"a"}, b: []string{"a", "a"}, then: false},
		"both empty":      {a: nil, b: []string{}, then: true},
	} {
		t.Run(name, func(t *testing.T) {
			if got := cmp.SliceEq(testcase.a, testcase.b); got != testcase.then {
				t.Errorf("SliceEq(%v, %v) = %v", testcase.a, testcase.b, got)
			}
		})
	}
}

func TestSliceContentEq(t *testing.T) {
	for name, testcase := range map[string]struct {
		a, b []string
		then bool
	}{
		"same order":          {a: []string{"a", "b"}, b: []string{"a", "b"}, then: true},
		"different order":     {a: []string{"a", "b"}, b: []string{"b", "a"}, then: true},
		"duplication differs": {a: []string{"a", "a", "b"}, b: []string{"a", "b", "b"}, then: false},
		"different size":      {a: []string{"a"}, b: []string{"a", "a"}, then: false},
	} {
		t.Run(name, func(t *testing.T) {
			if got := cmp.SliceContentEq(testcase.a, testcase.b); got != testcase.then {
				t.Errorf("SliceContentEq(%v, %v) = %v", testcase.a, testcase.b, got)
			}
		})
	}
}

func TestMapEq(t *testing.T) {
	for name, testcase := range map[string]struct {
		a, b map[string]int
		then bool
	}{
		"same":          {a: map[string]int{"a": 1}, b: map[string]int{"a": 1}, then: true},
		"value differs": {a: map[string]int{"a": 1}, b: map[string]int{"a": 2}, then: false},
		"key differs":   {a: map[string]int{"a": 1}, b: map[string]int{"b": 1}, then: false},
		"nil and empty": {a: nil, b: map[string]int{}, then: true},
	} {
		t.Run(name, func(t *testing.T) {
			if got := cmp.MapEq(testcase.a, testcase.b); got != testcase.then {
				t.Errorf("MapEq(%v, %v) = %v", testcase.a, testcase.b, got)
			}
		})
	}
}
