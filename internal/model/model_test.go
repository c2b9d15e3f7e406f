package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestEncodeDecodePoint(t *testing.T) {
	data, err := EncodePoint(76.9286, 43.2567)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	lng, lat, err := DecodePoint(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lng != 76.9286 || lat != 43.2567 {
		t.Fatalf("got (%v, %v)", lng, lat)
	}
}

func TestDecodePointRejectsGarbage(t *testing.T) {
	if _, _, err := DecodePoint([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected error for truncated wkb")
	}
}

func TestLineItemComputeValue(t *testing.T) {
	li := LineItem{Quantity: 3, UnitPrice: 10, TaxRate: 0.12}
	if got := li.ComputeValue(); math.Abs(got-33.6) > 1e-9 {
		t.Fatalf("expected 33.6, got %v", got)
	}
}

func TestUserRoleValid(t *testing.T) {
	for _, role := range []UserRole{UserRoleUser, UserRoleAdmin, UserRoleManager} {
		if !role.Valid() {
			t.Fatalf("%s should be valid", role)
		}
	}
	if UserRole("ROOT").Valid() {
		t.Fatal("unknown role accepted")
	}
}

func TestDateJSON(t *testing.T) {
	route := DispatchRoute{ID: 1, DriverID: 2, Date: NewDate(time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC))}
	data, err := json.Marshal(route)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["date"] != "2024-03-10" {
		t.Fatalf("expected calendar date, got %v", out["date"])
	}

	for _, in := range []string{`"2024-03-10"`, `"2024-03-10T00:00:00Z"`} {
		var d Date
		if err := json.Unmarshal([]byte(in), &d); err != nil {
			t.Fatalf("decode %s: %v", in, err)
		}
		if d.String() != "2024-03-10" {
			t.Fatalf("decode %s: got %s", in, d)
		}
	}

	var d Date
	if err := json.Unmarshal([]byte(`"10/03/2024"`), &d); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}
