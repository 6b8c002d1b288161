// Package try turns (value, error) pairs into a value or a fatal error in tests.
//
//	conf := try.To(server.Load(path, getenv)).OrFatal(t)
package try

// something have method `Fatal`, like *testing.T .
type Fataler interface {
	Fatal(...any)
}

// Either is a pair of (T, error).
//
// When error is nil, the Either is "ok" and T is valid. Otherwise, T is not valid.
type Either[T any] interface {
	// get value & error pair.
	Get() (T, error)

	// When the Either is "ok", OrFatal returns the value.
	//
	// Otherwise, it calls ftl.Fatal(err).
	// If ftl has "Helper()" method (like *testing.T), that is called before `Fatal`.
	OrFatal(ftl Fataler) T

	// When the Either is "ok", OrDefault returns the value. Otherwise, d.
	OrDefault(d T) T
}

func To[T any](ok T, ng error) Either[T] {
	if ng == nil {
		return tryOk[T]{value: ok}
	}
	return tryNg[T]{err: ng}
}

type tryOk[T any] struct {
	value T
}

func (ok tryOk[T]) Get() (T, error) {
	return ok.value, nil
}

func (ok tryOk[T]) OrFatal(Fataler) T {
	return ok.value
}

func (ok tryOk[T]) OrDefault(T) T {
	return ok.value
}

type tryNg[T any] struct {
	err error
}

func (ng tryNg[T]) Get() (T, error) {
	return *new(T), ng.err
}

func (ng tryNg[T]) OrFatal(ftl Fataler) T {
	if hlp, ok := ftl.(interface{ Helper() }); ok {
		hlp.Helper()
	}
	ftl.Fatal(ng.err)
	return *new(T)
}

func (ng tryNg[T]) OrDefault(d T) T {
	return d
}
