package service

import (
	"errors"
	"testing"

	"github.com/tilehub/tilehub-go/internal/model"
)

func TestListTilesSeeded(t *testing.T) {
	svc := NewTilesService()

	tiles := svc.ListTiles()
	if len(tiles) == 0 {
		t.Fatal("ListTiles() returned no tiles")
	}
	for _, tile := range tiles {
		if tile.Name == "" || tile.Color == "" {
			t.Errorf("tile %+v missing name or color", tile)
		}
	}
}

func TestListTablesUnknownTile(t *testing.T) {
	svc := NewTilesService()

	_, err := svc.ListTables("NoSuchTile")
	if !errors.Is(err, ErrTileNotFound) {
		t.Errorf("ListTables() error = %v, want ErrTileNotFound", err)
	}
}

func TestListRows(t *testing.T) {
	svc := NewTilesService()

	tiles := svc.ListTiles()
	tables, err := svc.ListTables(tiles[0].Name)
	if err != nil {
		t.Fatalf("ListTables() unexpected error: %v", err)
	}
	if len(tables) == 0 {
		t.Fatalf("tile %q has no tables", tiles[0].Name)
	}

	rows, err := svc.ListRows(tiles[0].Name, tables[0].Name)
	if err != nil {
		t.Fatalf("ListRows() unexpected error: %v", err)
	}
	for _, row := range rows {
		if row.RowID == "" {
			t.Error("seeded row has empty row id")
		}
		if len(row.Fields) == 0 {
			t.Error("seeded row has no fields")
		}
	}
}

func TestListRowsUnknownTable(t *testing.T) {
	svc := NewTilesService()

	tiles := svc.ListTiles()
	_, err := svc.ListRows(tiles[0].Name, "NoSuchTable")
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("ListRows() error = %v, want ErrTableNotFound", err)
	}
}

func TestAddAndDeleteRow(t *testing.T) {
	svc := NewTilesService()

	tiles := svc.ListTiles()
	tables, err := svc.ListTables(tiles[0].Name)
	if err != nil {
		t.Fatalf("ListTables() unexpected error: %v", err)
	}

	before, err := svc.ListRows(tiles[0].Name, tables[0].Name)
	if err != nil {
		t.Fatalf("ListRows() unexpected error: %v", err)
	}

	row, err := svc.AddRow(tiles[0].Name, tables[0].Name, model.AddRowRequest{
		Fields: map[string]any{"note": "added in test"},
	})
	if err != nil {
		t.Fatalf("AddRow() unexpected error: %v", err)
	}
	if row.RowID == "" {
		t.Fatal("AddRow() returned empty row id")
	}

	after, err := svc.ListRows(tiles[0].Name, tables[0].Name)
	if err != nil {
		t.Fatalf("ListRows() unexpected error: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Errorf("row count = %d, want %d", len(after), len(before)+1)
	}

	if err := svc.DeleteRow(tiles[0].Name, tables[0].Name, row.RowID); err != nil {
		t.Fatalf("DeleteRow() unexpected error: %v", err)
	}

	if err := svc.DeleteRow(tiles[0].Name, tables[0].Name, row.RowID); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("DeleteRow() twice error = %v, want ErrRowNotFound", err)
	}
}

func TestAddRowWithoutFields(t *testing.T) {
	svc := NewTilesService()

	tiles := svc.ListTiles()
	tables, err := svc.ListTables(tiles[0].Name)
	if err != nil {
		t.Fatalf("ListTables() unexpected error: %v", err)
	}

	_, err = svc.AddRow(tiles[0].Name, tables[0].Name, model.AddRowRequest{})
	if !errors.Is(err, ErrFieldsRequired) {
		t.Errorf("AddRow() error = %v, want ErrFieldsRequired", err)
	}
}
