package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	httptestutil "github.com/v6census/v6census/internal/testutils/http"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	dbmocks "github.com/v6census/v6census/pkg/domain/census/db/mock"

	"github.com/v6census/v6census/cmd/censusd/handlers"
)

func TestHealthHandler(t *testing.T) {

	t.Run("it reports the store off when no database is configured", func(t *testing.T) {
		e := echo.New()
		c, respRec := httptestutil.Get(e, "/health/")

		testee := handlers.HealthHandler(nil)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if respRec.Result().StatusCode != http.StatusOK {
			t.Errorf("status code %d != %d", respRec.Result().StatusCode, http.StatusOK)
		}

		actual := apicensus.Health{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not illegal. error = %v", err)
		}
		if actual.Status != "ok" || actual.Store != "off" {
			t.Errorf("health does not match: %+v", actual)
		}
	})

	t.Run("it reports ok when the store answers the ping", func(t *testing.T) {
		mckDB := dbmocks.NewDatabase()
		mckDB.Impl.Ping = func(ctx context.Context) error { return nil }

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/health/")

		testee := handlers.HealthHandler(mckDB)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if respRec.Result().StatusCode != http.StatusOK {
			t.Errorf("status code %d != %d", respRec.Result().StatusCode, http.StatusOK)
		}

		actual := apicensus.Health{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not illegal. error = %v", err)
		}
		if actual.Status != "ok" || actual.Store != "ok" {
			t.Errorf("health does not match: %+v", actual)
		}

		if times := mckDB.Calls.Ping.Times(); times != 1 {
			t.Errorf("Ping should be called once: %d times", times)
		}
	})

	t.Run("when the ping fails, status code should be 503", func(t *testing.T) {
		mckDB := dbmocks.NewDatabase()
		mckDB.Impl.Ping = func(ctx context.Context) error {
			return errors.New("connection refused")
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/health/")

		testee := handlers.HealthHandler(mckDB)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if respRec.Result().StatusCode != http.StatusServiceUnavailable {
			t.Errorf(
				"status code %d != %d",
				respRec.Result().StatusCode, http.StatusServiceUnavailable,
			)
		}

		actual := apicensus.Health{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not illegal. error = %v", err)
		}
		if actual.Status != "degraded" || actual.Store != "connection refused" {
			t.Errorf("health does not match: %+v", actual)
		}
	})
}
