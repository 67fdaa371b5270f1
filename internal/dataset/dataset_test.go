package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const cars = `Brand,Model,Price,Mileage
Toyota,Corolla,15000,40000
Honda,Civic,16000,35000
Toyota,Camry,22000,20000
Chevrolet,Malibu,18000,30000
`

func TestRead(t *testing.T) {
	t.Parallel()
	ds, err := Read(strings.NewReader(cars))
	if err != nil {
		t.Fatal(err)
	}
	wantHeaders := []string{"Brand", "Model", "Price", "Mileage"}
	if !reflect.DeepEqual(ds.Headers, wantHeaders) {
		t.Errorf("Headers = %v, want %v", ds.Headers, wantHeaders)
	}
	if len(ds.Rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(ds.Rows))
	}
	if ds.Rows[2]["Model"] != "Camry" {
		t.Errorf("Rows[2][Model] = %q, want Camry", ds.Rows[2]["Model"])
	}
}

func TestRead_ShortRecord(t *testing.T) {
	t.Parallel()
	ds, err := Read(strings.NewReader("Brand,Model\nToyota\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ds.Rows[0]["Model"]; ok {
		t.Error("short record should not have a Model column")
	}
	if ds.Rows[0]["Brand"] != "Toyota" {
		t.Errorf("Brand = %q, want Toyota", ds.Rows[0]["Brand"])
	}
}

func TestRead_SkipsMalformed(t *testing.T) {
	t.Parallel()
	input := "Brand,Model\nToyota,\"Cor\"olla\nHonda,Civic\n"
	ds, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if ds.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", ds.Skipped)
	}
	if len(ds.Rows) != 1 || ds.Rows[0]["Brand"] != "Honda" {
		t.Errorf("Rows = %v, want only Honda", ds.Rows)
	}
}

func TestRead_Empty(t *testing.T) {
	t.Parallel()
	if _, err := Read(strings.NewReader("")); !errors.Is(err, ErrNoHeader) {
		t.Errorf("error = %v, want ErrNoHeader", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cars.csv")
	if err := os.WriteFile(path, []byte(cars), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Rows) != 4 {
		t.Errorf("len(Rows) = %d, want 4", len(ds.Rows))
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestFilterAndUnique(t *testing.T) {
	t.Parallel()
	ds, err := Read(strings.NewReader(cars))
	if err != nil {
		t.Fatal(err)
	}

	toyotas := Filter(ds.Rows, "Brand", "Toyota")
	if len(toyotas) != 2 {
		t.Errorf("Filter(Brand=Toyota) = %d rows, want 2", len(toyotas))
	}
	if got := Filter(ds.Rows, "Color", "Red"); len(got) != 0 {
		t.Errorf("Filter on missing column = %d rows, want 0", len(got))
	}

	want := []string{"Chevrolet", "Honda", "Toyota"}
	if got := UniqueValues(ds.Rows, "Brand"); !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueValues = %v, want %v", got, want)
	}
	wantCol := []string{"Toyota", "Honda", "Toyota", "Chevrolet"}
	if got := Column(ds.Rows, "Brand"); !reflect.DeepEqual(got, wantCol) {
		t.Errorf("Column = %v, want %v", got, wantCol)
	}
}

func TestParseCondition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		expr    string
		want    Condition
		wantErr bool
	}{
		{expr: "Brand=Toyota", want: Condition{Attribute: "Brand", Value: "Toyota"}},
		{expr: " Brand = Honda ", want: Condition{Attribute: "Brand", Value: "Honda"}},
		{expr: "Brand=", want: Condition{Attribute: "Brand"}},
		{expr: "Brand", wantErr: true},
		{expr: "=Toyota", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCondition(tt.expr)
			if tt.wantErr {
				if !errors.Is(err, ErrBadCondition) {
					t.Errorf("err = %v, want ErrBadCondition", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCondition: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCondition_Apply(t *testing.T) {
	t.Parallel()
	ds, err := Read(strings.NewReader(cars))
	if err != nil {
		t.Fatal(err)
	}
	c := Condition{Attribute: "Brand", Value: "Toyota"}
	if got := c.Apply(ds.Rows); len(got) != 2 {
		t.Errorf("Apply(%s) = %d rows, want 2", c, len(got))
	}
}
