package handlers

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCreateCategoryRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"valid", `{"name":"Fiction"}`, ""},
		{"valid with parent", `{"name":"SciFi","parentId":"8b6a0a7e-6f64-4bfb-9d4a-6a8f1d9f5c11"}`, ""},
		{"missing name", `{}`, "name is required"},
		{"whitespace name", `{"name":"   "}`, "name is required"},
		{"name too long", `{"name":"` + strings.Repeat("a", 256) + `"}`, "name is too long (max 255 characters)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req createCategoryRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			req.normalize()

			err := validate.Struct(&req)
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected a validation error, got none")
			}
			if got := validationMessage(err); got != tt.wantMsg {
				t.Errorf("message: got %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestUpdateCategoryRequestParentTriState(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValue bool
	}{
		{"absent", `{"name":"X"}`, false, false},
		{"null", `{"parentId":null}`, true, false},
		{"value", `{"parentId":"8b6a0a7e-6f64-4bfb-9d4a-6a8f1d9f5c11"}`, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req updateCategoryRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if req.ParentID.Set != tt.wantSet {
				t.Errorf("Set: got %v, want %v", req.ParentID.Set, tt.wantSet)
			}
			if (req.ParentID.Value != nil) != tt.wantValue {
				t.Errorf("Value present: got %v, want %v", req.ParentID.Value != nil, tt.wantValue)
			}
		})
	}
}

func TestUpdateRequestRejectsEmptyName(t *testing.T) {
	var req updateBookRequest
	if err := json.Unmarshal([]byte(`{"name":"  "}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	req.normalize()

	err := validate.Struct(&req)
	if err == nil {
		t.Fatal("expected a validation error for a blank name")
	}
	if got := validationMessage(err); got != "name must not be empty" {
		t.Errorf("message: got %q", got)
	}
}

func TestCreateBookRequestRequiresCategory(t *testing.T) {
	var req createBookRequest
	if err := json.Unmarshal([]byte(`{"name":"Dune"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	req.normalize()

	err := validate.Struct(&req)
	if err == nil {
		t.Fatal("expected a validation error for a missing categoryId")
	}
	if got := validationMessage(err); got != "categoryId is required" {
		t.Errorf("message: got %q", got)
	}
}

func TestInvalidUUIDInBody(t *testing.T) {
	var req updateCategoryRequest
	if err := json.Unmarshal([]byte(`{"parentId":"not-a-uuid"}`), &req); err == nil {
		t.Error("expected unmarshal error for a malformed parentId")
	}
}
