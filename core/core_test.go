package core_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/schooladmin/core"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   core.PageRequest
		want core.PageRequest
	}{
		{"defaults", core.PageRequest{}, core.PageRequest{Page: 1, PageSize: 15}},
		{"negative page", core.PageRequest{Page: -2, PageSize: 3}, core.PageRequest{Page: 1, PageSize: 3}},
		{"clamped", core.PageRequest{Page: 2, PageSize: 500}, core.PageRequest{Page: 2, PageSize: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(15, 100); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPage_TotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{7, 3, 3},
		{6, 3, 2},
		{0, 3, 0},
		{1, 0, 0},
	}
	for _, tt := range tests {
		p := core.Page[int]{Total: tt.total, PageSize: tt.size}
		if got := p.TotalPages(); got != tt.want {
			t.Errorf("Page{Total: %d, PageSize: %d}.TotalPages() = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestParseOrdering(t *testing.T) {
	got := core.ParseOrdering(" -created_at, name ,,")
	want := []core.DBOrdering{{Field: "created_at"}, {Field: "name", Ascending: true}}
	if len(got) != len(want) {
		t.Fatalf("ParseOrdering() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseOrdering()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if s := got[0].String(); s != "created_at DESC" {
		t.Errorf("DBOrdering.String() = %q, want %q", s, "created_at DESC")
	}
}

func TestDecodeStrict(t *testing.T) {
	type input struct {
		Name  string                     `json:"name"`
		Phone core.Optional[null.String] `json:"phone"`
	}

	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantField string
		check     func(t *testing.T, in input)
	}{
		{name: "unknown field", body: `{"name": "x", "fillable": true}`, wantErr: true, wantField: "fillable"},
		{name: "malformed", body: `{"name": `, wantErr: true},
		{name: "trailing document", body: `{"name": "x"} {"name": "y"}`, wantErr: true},
		{name: "absent optional", body: `{"name": "x"}`, check: func(t *testing.T, in input) {
			if in.Phone.Set {
				t.Error("Phone.Set = true, want false")
			}
		}},
		{name: "null optional", body: `{"phone": null}`, check: func(t *testing.T, in input) {
			if !in.Phone.Set || in.Phone.Value.Valid {
				t.Errorf("Phone = %+v, want set to NULL", in.Phone)
			}
		}},
		{name: "valued optional", body: `{"phone": "+243"}`, check: func(t *testing.T, in input) {
			if !in.Phone.Set || in.Phone.Value.String != "+243" {
				t.Errorf("Phone = %+v, want set to +243", in.Phone)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in input
			err := core.DecodeStrict(strings.NewReader(tt.body), &in)
			if tt.wantErr {
				var vErr *core.ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("DecodeStrict() error = %v, want *core.ValidationError", err)
				}
				if tt.wantField != "" && (len(vErr.Fields) != 1 || vErr.Fields[0].Field != tt.wantField) {
					t.Errorf("DecodeStrict() fields = %+v, want %q", vErr.Fields, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeStrict() unexpected error = %v", err)
			}
			tt.check(t, in)
		})
	}
}

func TestErrorKinds(t *testing.T) {
	wrapped := errors.Wrap(core.NewNotFoundError("student", 4), "getting student")
	if !core.IsNotFound(wrapped) {
		t.Error("IsNotFound(wrapped) = false, want true")
	}
	if core.IsValidation(wrapped) || core.IsUniquenessConflict(wrapped) || core.IsReferentialIntegrity(wrapped) {
		t.Error("wrapped NotFoundError matched another kind")
	}
	if got, want := wrapped.Error(), "getting student: student 4 not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	uErr := &core.UniquenessConflictError{Entity: "section", Fields: []string{"class_id", "name"}}
	if got, want := uErr.Error(), "a section with this class_id, name already exists"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	rErr := &core.ReferentialIntegrityError{Entity: "exam_result", Field: "exam_id", RefEntity: "exam", RefID: 99}
	if got, want := rErr.Error(), "exam_result.exam_id: exam 99 does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: `"2025-01-10"`, want: "2025-01-10"},
		{in: `"2025-01-10T00:00:00Z"`, want: "2025-01-10"},
		{in: `"10/01/2025"`, wantErr: true},
		{in: `20250110`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d core.Date
			err := json.Unmarshal([]byte(tt.in), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := d.String(); got != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %s, want %s", tt.in, got, tt.want)
			}
			out, err := json.Marshal(d)
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if got, want := string(out), `"`+tt.want+`"`; got != want {
				t.Errorf("MarshalJSON() = %s, want %s", got, want)
			}
		})
	}

	var d *core.Date
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || d != nil {
		t.Errorf("UnmarshalJSON(null) = %v, %v, want nil, nil", d, err)
	}
}
