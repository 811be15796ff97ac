package main

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/fish_backend/config"
	"github.com/mmdatafocus/fish_backend/handlers"
	"github.com/mmdatafocus/fish_backend/ordering"
	"github.com/mmdatafocus/fish_backend/store"
)

func TestParseTriple(t *testing.T) {
	cases := []struct {
		in    string
		ok    bool
		parts [3]string
	}{
		{"Pomfret:2:500", true, [3]string{"Pomfret", "2", "500"}},
		{" Rohu : 1.5 : 120 ", true, [3]string{"Rohu", "1.5", "120"}},
		{"Surmai:3", false, [3]string{}},
		{":1:1", false, [3]string{}},
	}
	for _, tc := range cases {
		a, b, c, err := parseTriple(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("%q: expected ok=%v, got %v", tc.in, tc.ok, err)
		}
		if tc.ok && [3]string{a, b, c} != tc.parts {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.parts, [3]string{a, b, c})
		}
	}
}

func TestFillLineItem(t *testing.T) {
	composer := ordering.New(nil)
	if err := fillLineItem(composer, 0, "Pomfret", "2", "500"); err != nil {
		t.Fatalf("fillLineItem: %v", err)
	}
	if item := composer.Draft().Items[0]; item.Fish != "Pomfret" || item.Weight != "2" || item.Amount != "500" {
		t.Fatalf("unexpected line item %+v", item)
	}
	if err := fillLineItem(composer, 3, "Rohu", "1", "100"); !errors.Is(err, ordering.ErrItemOutOfRange) {
		t.Fatalf("expected ErrItemOutOfRange, got %v", err)
	}
}

func run(t *testing.T, api string, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	if err := app.Run(append([]string{"fishdesk", "--api", api}, args...)); err != nil {
		t.Fatalf("%v: %v (%s)", args, err, errOut.String())
	}
	return out.String()
}

func TestCommands(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(handlers.NewRouter(store.NewMemoryStore(), config.GetLogger()))
	defer srv.Close()
	api := srv.URL + "/api"

	out := run(t, api, "stock", "save", "--entry", "Pomfret:10:3000", "--entry", "Rohu:5:400")
	if !strings.Contains(out, "2 entries saved") {
		t.Fatalf("unexpected output %q", out)
	}
	out = run(t, api, "stock", "list")
	if !strings.Contains(out, "Total Investment: 3400.00 INR") {
		t.Fatalf("unexpected output %q", out)
	}

	out = run(t, api, "order", "create", "--customer", "Asha", "--phone", "9876543210", "--payment", "upi", "--item", "Pomfret:2:500")
	if !strings.Contains(out, "Order submitted successfully!") {
		t.Fatalf("unexpected output %q", out)
	}
	out = run(t, api, "order", "resolve", "--id", "1")
	if !strings.Contains(out, "Order resolved successfully") {
		t.Fatalf("unexpected output %q", out)
	}

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	out = run(t, api, "sales", "export", "--status", "Resolved", "--out", path)
	if !strings.Contains(out, "(1 orders)") {
		t.Fatalf("unexpected output %q", out)
	}
	out = run(t, api, "sales", "show", "--fish", "Rohu")
	if !strings.Contains(out, "Total Investment: ₹400.00") {
		t.Fatalf("unexpected output %q", out)
	}
}
