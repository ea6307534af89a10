package elasticsearch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/typeahead/internal/domain"
)

func TestMapping_Fields(t *testing.T) {
	data, err := Mapping()
	if err != nil {
		t.Fatalf("Mapping: %v", err)
	}
	props := gjson.GetBytes(data, "mappings.properties")

	keywords := []string{
		domain.FieldPath, domain.FieldParentPath, domain.FieldWorkspace, domain.FieldNodeType,
		domain.FieldCompletion, domain.FieldSuggestionContext, domain.FieldDimensionsHash,
	}
	for _, f := range keywords {
		if got := props.Get(f + ".type").String(); got != "keyword" {
			t.Errorf("%s type = %q, want keyword", f, got)
		}
	}
	if got := props.Get(domain.FieldHidden + ".type").String(); got != "boolean" {
		t.Errorf("hidden type = %q", got)
	}

	sug := props.Get(domain.FieldSuggestion)
	if sug.Get("type").String() != "completion" {
		t.Errorf("suggestion type = %q", sug.Get("type").String())
	}
	if sug.Get("contexts.0.name").String() != domain.SuggestionContextName ||
		sug.Get("contexts.0.type").String() != "category" {
		t.Errorf("suggestion contexts = %s", sug.Get("contexts").Raw)
	}
	if props.Get(domain.FieldPath + ".contexts").Exists() {
		t.Error("contexts must only be set on the completion field")
	}
}

func TestEnsureIndex_Creates(t *testing.T) {
	var methods []string
	var created string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.URL.Path != "/typeahead-test" {
			t.Errorf("path = %q", r.URL.Path)
		}
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			b, _ := io.ReadAll(r.Body)
			created = string(b)
			_, _ = w.Write([]byte(`{"acknowledged":true,"index":"typeahead-test"}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	if err := c.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if len(methods) != 2 || methods[0] != http.MethodHead || methods[1] != http.MethodPut {
		t.Fatalf("requests = %v, want HEAD then PUT", methods)
	}
	if got := gjson.Get(created, "mappings.properties."+domain.FieldSuggestion+".type").String(); got != "completion" {
		t.Errorf("created mapping lacks the completion field: %s", created)
	}
}

func TestEnsureIndex_Exists(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
	})

	if err := c.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if len(methods) != 1 || methods[0] != http.MethodHead {
		t.Errorf("existing index must not be recreated, requests = %v", methods)
	}
}

func TestEnsureIndex_CreateRace(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"resource_already_exists_exception","reason":"index exists"},"status":400}`))
	})

	if err := c.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("concurrent creation must be tolerated, got %v", err)
	}
}

func TestEnsureIndex_CreateFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"mapper_parsing_exception","reason":"bad mapping"},"status":400}`))
	})

	err := c.EnsureIndex(context.Background())
	var be *domain.BackendError
	if !errors.As(err, &be) || be.Reason != "bad mapping" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestEnsureIndex_ExistsCheckFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	if err := c.EnsureIndex(context.Background()); !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
}
