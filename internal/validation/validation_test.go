package validation

import (
	"testing"
	"time"
)

type lineItem struct {
	Quantity float64 `json:"quantity" binding:"gt=0"`
}

type order struct {
	ID        string     `json:"id" binding:"nonblank"`
	LineItems []lineItem `json:"lineItems" binding:"dive"`
}

type payload struct {
	Name   string  `json:"name" binding:"required"`
	Orders []order `json:"orders" binding:"dive"`
}

func TestFieldsUseJSONPaths(t *testing.T) {
	v := New()
	err := v.Struct(payload{
		Name: "x",
		Orders: []order{
			{ID: "o1", LineItems: []lineItem{{Quantity: 1}, {Quantity: 0}}},
		},
	})
	fields := Fields(err)
	if len(fields) != 1 {
		t.Fatalf("expected one field error, got %+v", fields)
	}
	if fields[0].Path != "orders[0].lineItems[1].quantity" {
		t.Fatalf("unexpected path %q", fields[0].Path)
	}
	if fields[0].Message != "must be greater than 0" {
		t.Fatalf("unexpected message %q", fields[0].Message)
	}
}

func TestNonBlankRejectsWhitespace(t *testing.T) {
	v := New()
	fields := Fields(v.Struct(payload{Name: "x", Orders: []order{{ID: "   "}}}))
	if len(fields) != 1 || fields[0].Path != "orders[0].id" || fields[0].Message != "must not be blank" {
		t.Fatalf("unexpected errors %+v", fields)
	}
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	if Fields(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-10", "2024-03-10T15:04:05Z", " 2024-03-10 "} {
		got, err := ParseDate(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: got %v", in, got)
		}
	}
	if _, err := ParseDate("10/03/2024"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
