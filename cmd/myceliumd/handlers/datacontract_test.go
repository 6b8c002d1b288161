package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mycelium-catalog/mycelium/cmd/myceliumd/handlers"
	httptestutil "github.com/mycelium-catalog/mycelium/internal/testutils/http"
	"github.com/mycelium-catalog/mycelium/pkg/api/types/envelope"
	apierr "github.com/mycelium-catalog/mycelium/pkg/api/types/errors"
	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
	"github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool/fake"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
	"github.com/mycelium-catalog/mycelium/pkg/domain/datacontract"
	"github.com/mycelium-catalog/mycelium/pkg/domain/datacontract/db/mock"
	kpgerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors/dberrors/postgres"
	"github.com/mycelium-catalog/mycelium/pkg/utils/cmp"
	"github.com/mycelium-catalog/mycelium/pkg/utils/try"
)

const ordersId = "urn:datacontract:checkout:orders-latest"

func service(t *testing.T) (datacontract.Interface, *mock.DataContractInterface) {
	m := mock.New(t)
	return datacontract.New(&fake.Pool{}, m), m
}

func orders(title string) *domain.DataContract {
	return &domain.DataContract{
		Id:                        ordersId,
		DataContractSpecification: "1.0.0",
		Info:                      &domain.Info{Title: title, Version: "1.0.0"},
		Tags:                      []string{"checkout", "orders"},
	}
}

// httpError asserts err is *echo.HTTPError with code, and returns its detail.
func httpError(t *testing.T, err error, code int) any {
	t.Helper()
	he := new(echo.HTTPError)
	if !errors.As(err, &he) {
		t.Fatalf("error is not *echo.HTTPError: %v", err)
	}
	if he.Code != code {
		t.Fatalf("unexpected status code: %d (want %d): %v", he.Code, code, err)
	}
	msg, ok := he.Message.(apierr.ErrorMessage)
	if !ok {
		t.Fatalf("unexpected message: %#v", he.Message)
	}
	return msg.Detail
}

// payload decodes an enveloped response.
func payload[T any](t *testing.T, body []byte) envelope.Envelope[T] {
	t.Helper()
	ret := envelope.Envelope[T]{}
	if err := json.Unmarshal(body, &ret); err != nil {
		t.Fatalf("response is not an envelope: %s (%s)", err, body)
	}
	return ret
}

func TestCreateDataContract(t *testing.T) {
	t.Run("it creates a data contract and responds it with 201", func(t *testing.T) {
		svc, m := service(t)
		m.Impl.Create = func(ctx context.Context, _ kpool.BeginTx, dc *domain.DataContract) (*domain.DataContract, error) {
			return dc, nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/data-contracts/",
			strings.NewReader(`{
				"id": "urn:datacontract:checkout:orders-latest",
				"dataContractSpecification": "1.0.0",
				"info": {"title": "Orders", "version": "1.0.0"}
			}`),
			httptestutil.ContentType("application/json"),
		)

		if err := handlers.CreateDataContractHandler(svc)(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusCreated {
			t.Errorf("unexpected status code: %d", resp.Code)
		}
		got := payload[domain.DataContract](t, resp.Body.Bytes())
		if got.Message != "Data contract created successfully" {
			t.Errorf("unexpected message: %s", got.Message)
		}
		if got.Data.Id != ordersId || got.Data.Info.Title != "Orders" {
			t.Errorf("unexpected data: %+v", got.Data)
		}
		if m.Calls.Create.Times() != 1 {
			t.Fatalf("Create is called %d times", m.Calls.Create.Times())
		}
		if dc := m.Calls.Create[0]; dc.DataContractSpecification != "1.0.0" {
			t.Errorf("alias is not resolved: %+v", dc)
		}
	})

	for name, testcase := range map[string]struct {
		body        string
		contentType string
		then        int
		thenDetail  string
		thenLoc     string
	}{
		"without id": {
			body: `{"data_contract_specification": "1.0.0", "info": {"title": "Orders", "version": "1.0.0"}}`,
			then: http.StatusUnprocessableEntity, thenLoc: "body.id",
		},
		"with null id": {
			body: `{"id": null, "data_contract_specification": "1.0.0", "info": {"title": "Orders", "version": "1.0.0"}}`,
			then: http.StatusUnprocessableEntity, thenLoc: "body.id",
		},
		"with empty id": {
			body: `{"id": "", "data_contract_specification": "1.0.0", "info": {"title": "Orders", "version": "1.0.0"}}`,
			then: http.StatusBadRequest, thenDetail: "Data contract ID is required",
		},
		"without info.title": {
			body: `{"id": "x", "data_contract_specification": "1.0.0", "info": {"version": "1.0.0"}}`,
			then: http.StatusUnprocessableEntity, thenLoc: "body.info.title",
		},
		"without info.version": {
			body: `{"id": "x", "data_contract_specification": "1.0.0", "info": {"title": "Orders"}}`,
			then: http.StatusUnprocessableEntity, thenLoc: "body.info.version",
		},
		"with a field of unknown type": {
			body: `{
				"id": "x", "data_contract_specification": "1.0.0",
				"info": {"title": "Orders", "version": "1.0.0"},
				"models": {"orders": {"fields": {"id": {"type": "uuid"}}}}
			}`,
			then: http.StatusUnprocessableEntity, thenLoc: "body.models.orders.fields.id.type",
		},
		"with a body which is not JSON": {
			body: `id=x`,
			then: http.StatusBadRequest,
		},
		"with a non-JSON content type": {
			body:        `{"id": "x"}`,
			contentType: "text/plain",
			then:        http.StatusBadRequest,
		},
	} {
		t.Run("it rejects a request "+name, func(t *testing.T) {
			svc, m := service(t)

			ctyp := testcase.contentType
			if ctyp == "" {
				ctyp = "application/json; charset=utf-8"
			}
			e := echo.New()
			c, _ := httptestutil.Post(
				e, "/data-contracts/", strings.NewReader(testcase.body),
				httptestutil.ContentType(ctyp),
			)

			err := handlers.CreateDataContractHandler(svc)(c)
			detail := httpError(t, err, testcase.then)

			if testcase.thenDetail != "" && detail != testcase.thenDetail {
				t.Errorf("unexpected detail: %v", detail)
			}
			if testcase.thenLoc != "" {
				fields, ok := detail.([]apierr.FieldError)
				if !ok {
					t.Fatalf("detail is not field errors: %#v", detail)
				}
				found := false
				for _, fe := range fields {
					found = found || strings.Join(fe.Loc, ".") == testcase.thenLoc
				}
				if !found {
					t.Errorf("%s is not reported: %+v", testcase.thenLoc, fields)
				}
			}
			if m.Calls.Create.Times() != 0 {
				t.Error("invalid data contract is stored")
			}
		})
	}

	for name, testcase := range map[string]struct {
		when       error
		then       int
		thenDetail string
	}{
		"duplicated id": {
			when:       kpgerr.Duplicated{Table: "data_contracts", Identity: ordersId},
			then:       http.StatusConflict,
			thenDetail: "Data contract with id 'urn:datacontract:checkout:orders-latest' already exists",
		},
		"storage failure": {
			when:       kpgerr.OperationFailed{Operation: "create", Cause: errors.New("connection reset by peer")},
			then:       http.StatusInternalServerError,
			thenDetail: "Failed to create data contract",
		},
	} {
		t.Run("it responds "+name, func(t *testing.T) {
			svc, m := service(t)
			m.Impl.Create = func(context.Context, kpool.BeginTx, *domain.DataContract) (*domain.DataContract, error) {
				return nil, testcase.when
			}

			e := echo.New()
			c, _ := httptestutil.Post(
				e, "/data-contracts/",
				bytes.NewReader(try.To(json.Marshal(orders("Orders"))).OrFatal(t)),
				httptestutil.ContentType("application/json"),
			)
			err := handlers.CreateDataContractHandler(svc)(c)
			if detail := httpError(t, err, testcase.then); detail != testcase.thenDetail {
				t.Errorf("unexpected detail: %v", detail)
			}
		})
	}
}

func TestGetDataContract(t *testing.T) {
	for name, testcase := range map[string]struct {
		when       error
		then       int
		thenDetail string
	}{
		"found": {
			then: http.StatusOK,
		},
		"missing": {
			when:       kpgerr.Missing{Table: "data_contracts", Identity: ordersId},
			then:       http.StatusNotFound,
			thenDetail: "Data contract with id 'urn:datacontract:checkout:orders-latest' not found",
		},
		"corrupted": {
			when: kpgerr.Corrupted{
				Table: "data_contracts", Identity: ordersId,
				Cause: &domain.ValidationError{Errors: []domain.FieldError{{Loc: []string{"body", "info"}}}},
			},
			then:       http.StatusInternalServerError,
			thenDetail: "Failed to retrieve data contract",
		},
	} {
		t.Run(name, func(t *testing.T) {
			svc, m := service(t)
			m.Impl.Get = func(_ context.Context, _ kpool.BeginTx, id string) (*domain.DataContract, error) {
				if testcase.when != nil {
					return nil, testcase.when
				}
				return orders("Orders"), nil
			}

			e := echo.New()
			c, resp := httptestutil.Get(e, "/data-contracts/"+ordersId+"/")
			c.SetParamNames("id")
			c.SetParamValues(ordersId)

			err := handlers.GetDataContractHandler(svc, "id")(c)
			if !cmp.SliceEq([]string(m.Calls.Get), []string{ordersId}) {
				t.Errorf("unexpected calls: %v", m.Calls.Get)
			}
			if testcase.then != http.StatusOK {
				if detail := httpError(t, err, testcase.then); detail != testcase.thenDetail {
					t.Errorf("unexpected detail: %v", detail)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got := payload[domain.DataContract](t, resp.Body.Bytes())
			if got.Message != "Data contract retrieved successfully" || got.Data.Info.Title != "Orders" {
				t.Errorf("unexpected response: %+v", got)
			}
		})
	}
}

func TestListDataContracts(t *testing.T) {
	for name, testcase := range map[string]struct {
		when []*domain.DataContract
		then int
	}{
		"some data contracts": {
			when: []*domain.DataContract{orders("Orders"), {
				Id: "urn:datacontract:checkout:payments", DataContractSpecification: "1.0.0",
				Info: &domain.Info{Title: "Payments", Version: "0.1.0"},
			}},
			then: 2,
		},
		"no data contracts": {when: nil, then: 0},
	} {
		t.Run(name, func(t *testing.T) {
			svc, m := service(t)
			m.Impl.List = func(context.Context, kpool.BeginTx) ([]*domain.DataContract, error) {
				return testcase.when, nil
			}

			e := echo.New()
			c, resp := httptestutil.Get(e, "/data-contracts/")
			if err := handlers.ListDataContractsHandler(svc)(c); err != nil {
				t.Fatal(err)
			}
			if resp.Code != http.StatusOK {
				t.Errorf("unexpected status code: %d", resp.Code)
			}
			if !strings.Contains(resp.Body.String(), `"data":[`) {
				t.Errorf("data is not an array: %s", resp.Body.String())
			}
			got := payload[[]domain.DataContract](t, resp.Body.Bytes())
			if len(got.Data) != testcase.then {
				t.Errorf("unexpected data: %+v", got.Data)
			}
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		svc, m := service(t)
		m.Impl.List = func(context.Context, kpool.BeginTx) ([]*domain.DataContract, error) {
			return nil, kpgerr.OperationFailed{Operation: "retrieve", Cause: errors.New("timeout")}
		}
		e := echo.New()
		c, _ := httptestutil.Get(e, "/data-contracts/")
		err := handlers.ListDataContractsHandler(svc)(c)
		if detail := httpError(t, err, http.StatusInternalServerError); detail != "Failed to retrieve data contracts" {
			t.Errorf("unexpected detail: %v", detail)
		}
	})
}

func TestUpdateDataContract(t *testing.T) {
	put := func(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
		e := echo.New()
		c, resp := httptestutil.Put(
			e, "/data-contracts/"+ordersId+"/", strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		c.SetParamNames("id")
		c.SetParamValues(ordersId)
		return c, resp
	}

	t.Run("it overwrites only members in the request", func(t *testing.T) {
		svc, m := service(t)
		m.Impl.Update = func(_ context.Context, _ kpool.BeginTx, id string, patch *domain.DataContractPatch) (*domain.DataContract, error) {
			dc := orders("Orders")
			patch.ApplyTo(dc)
			return dc, nil
		}

		c, resp := put(t, `{"info": {"title": "Orders v2", "version": "1.0.0"}}`)
		if err := handlers.UpdateDataContractHandler(svc, "id")(c); err != nil {
			t.Fatal(err)
		}

		if m.Calls.Update.Times() != 1 {
			t.Fatalf("Update is called %d times", m.Calls.Update.Times())
		}
		call := m.Calls.Update[0]
		if call.Id != ordersId {
			t.Errorf("unexpected id: %s", call.Id)
		}
		if !cmp.SliceEq(call.Patch.Keys(), []string{"info"}) {
			t.Errorf("unexpected members: %v", call.Patch.Keys())
		}

		got := payload[domain.DataContract](t, resp.Body.Bytes())
		if got.Message != "Data contract updated successfully" {
			t.Errorf("unexpected message: %s", got.Message)
		}
		if got.Data.Info.Title != "Orders v2" || !cmp.SliceEq(got.Data.Tags, []string{"checkout", "orders"}) {
			t.Errorf("unexpected data: %+v", got.Data)
		}
	})

	t.Run("it accepts the same id in the body", func(t *testing.T) {
		svc, m := service(t)
		m.Impl.Update = func(context.Context, kpool.BeginTx, string, *domain.DataContractPatch) (*domain.DataContract, error) {
			return orders("Orders"), nil
		}
		c, _ := put(t, `{"id": "urn:datacontract:checkout:orders-latest", "tags": ["checkout"]}`)
		if err := handlers.UpdateDataContractHandler(svc, "id")(c); err != nil {
			t.Fatal(err)
		}
	})

	for name, testcase := range map[string]struct {
		body string
		then int
	}{
		"another id in the body": {
			body: `{"id": "urn:datacontract:checkout:payments"}`,
			then: http.StatusUnprocessableEntity,
		},
		"null info": {
			body: `{"info": null}`,
			then: http.StatusUnprocessableEntity,
		},
		"not JSON": {
			body: `{"info":`,
			then: http.StatusBadRequest,
		},
	} {
		t.Run("it rejects "+name, func(t *testing.T) {
			svc, m := service(t)
			c, _ := put(t, testcase.body)
			err := handlers.UpdateDataContractHandler(svc, "id")(c)
			httpError(t, err, testcase.then)
			if m.Calls.Update.Times() != 0 {
				t.Error("invalid patch is stored")
			}
		})
	}

	t.Run("it responds 404 for missing data contract", func(t *testing.T) {
		svc, m := service(t)
		m.Impl.Update = func(_ context.Context, _ kpool.BeginTx, id string, _ *domain.DataContractPatch) (*domain.DataContract, error) {
			return nil, kpgerr.Missing{Table: "data_contracts", Identity: id}
		}
		c, _ := put(t, `{"tags": []}`)
		err := handlers.UpdateDataContractHandler(svc, "id")(c)
		httpError(t, err, http.StatusNotFound)
	})
}

func TestDeleteDataContract(t *testing.T) {
	for name, testcase := range map[string]struct {
		when error
		then int
	}{
		"present":         {then: http.StatusOK},
		"missing":         {when: kpgerr.Missing{Table: "data_contracts", Identity: ordersId}, then: http.StatusNotFound},
		"storage failure": {when: kpgerr.OperationFailed{Operation: "delete", Cause: errors.New("deadlock")}, then: http.StatusInternalServerError},
	} {
		t.Run(name, func(t *testing.T) {
			svc, m := service(t)
			m.Impl.Delete = func(context.Context, kpool.BeginTx, string) (*domain.DataContract, error) {
				if testcase.when != nil {
					return nil, testcase.when
				}
				return orders("Orders"), nil
			}

			e := echo.New()
			c, resp := httptestutil.Delete(e, "/data-contracts/"+ordersId+"/")
			c.SetParamNames("id")
			c.SetParamValues(ordersId)

			err := handlers.DeleteDataContractHandler(svc, "id")(c)
			if !cmp.SliceEq([]string(m.Calls.Delete), []string{ordersId}) {
				t.Errorf("unexpected calls: %v", m.Calls.Delete)
			}
			if testcase.then != http.StatusOK {
				detail := httpError(t, err, testcase.then)
				if s, _ := detail.(string); strings.Contains(s, "deadlock") {
					t.Errorf("internal is leaked: %s", s)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got := payload[domain.DataContract](t, resp.Body.Bytes())
			if got.Message != "Data contract deleted successfully" || got.Data.Id != ordersId {
				t.Errorf("unexpected response: %+v", got)
			}
		})
	}
}
