package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/tilehub/tilehub-go/internal/model"
)

var (
	ErrTileNotFound   = errors.New("tile not found")
	ErrTableNotFound  = errors.New("table not found")
	ErrRowNotFound    = errors.New("row not found")
	ErrFieldsRequired = errors.New("fields are required")
)

// tableData pairs a table definition with its sample rows.
type tableData struct {
	def  model.TableDef
	rows []model.TableRow
}

// tileData pairs a tile with its tables, in display order.
type tileData struct {
	tile   model.Tile
	order  []string
	tables map[string]*tableData
}

// TilesService serves the tile navigation catalog and the placeholder table
// screens behind it. The data is seeded sample content held in memory; rows
// added through the API live until the process exits. Writes are serialized
// by a mutex, concurrent updates resolve as last-write-wins.
type TilesService struct {
	mu    sync.Mutex
	order []string
	tiles map[string]*tileData
}

// NewTilesService creates a TilesService seeded with the demo catalog.
func NewTilesService() *TilesService {
	s := &TilesService{tiles: make(map[string]*tileData)}
	for _, seed := range seedCatalog() {
		s.order = append(s.order, seed.tile.Name)
		s.tiles[seed.tile.Name] = seed
	}
	return s
}

// ListTiles returns all navigation tiles in display order.
func (s *TilesService) ListTiles() []model.Tile {
	s.mu.Lock()
	defer s.mu.Unlock()

	tiles := make([]model.Tile, 0, len(s.order))
	for _, name := range s.order {
		tiles = append(tiles, s.tiles[name].tile)
	}
	return tiles
}

// ListTables returns the table definitions behind a tile.
func (s *TilesService) ListTables(tileName string) ([]model.TableDef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td, ok := s.tiles[tileName]
	if !ok {
		return nil, ErrTileNotFound
	}

	defs := make([]model.TableDef, 0, len(td.order))
	for _, name := range td.order {
		defs = append(defs, td.tables[name].def)
	}
	return defs, nil
}

// ListRows returns the sample rows of a table.
func (s *TilesService) ListRows(tileName, tableName string) ([]model.TableRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.lookupTable(tileName, tableName)
	if err != nil {
		return nil, err
	}

	rows := make([]model.TableRow, len(table.rows))
	copy(rows, table.rows)
	return rows, nil
}

// AddRow appends a row to a sample table and returns it with its generated id.
func (s *TilesService) AddRow(tileName, tableName string, req model.AddRowRequest) (model.TableRow, error) {
	if len(req.Fields) == 0 {
		return model.TableRow{}, ErrFieldsRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.lookupTable(tileName, tableName)
	if err != nil {
		return model.TableRow{}, err
	}

	row := model.TableRow{RowID: uuid.NewString(), Fields: req.Fields}
	table.rows = append(table.rows, row)
	return row, nil
}

// DeleteRow removes a row from a sample table.
func (s *TilesService) DeleteRow(tileName, tableName, rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.lookupTable(tileName, tableName)
	if err != nil {
		return err
	}

	for i, row := range table.rows {
		if row.RowID == rowID {
			table.rows = append(table.rows[:i], table.rows[i+1:]...)
			return nil
		}
	}
	return ErrRowNotFound
}

// lookupTable resolves a tile/table pair. Callers must hold the mutex.
func (s *TilesService) lookupTable(tileName, tableName string) (*tableData, error) {
	td, ok := s.tiles[tileName]
	if !ok {
		return nil, ErrTileNotFound
	}
	table, ok := td.tables[tableName]
	if !ok {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// seedCatalog builds the demo tiles and their sample tables.
func seedCatalog() []*tileData {
	return []*tileData{
		newTileData(model.Tile{Name: "Cars", Color: "#3F51B5", Description: "Vehicle records"},
			newTable(model.TableDef{Name: "Vehicles", Color: "#3F51B5", Description: "Vehicle master data"},
				map[string]any{"make": "Volkswagen", "model": "Golf", "year": 2019, "plate": "B-GL 2019"},
				map[string]any{"make": "Toyota", "model": "Corolla", "year": 2021, "plate": "B-CR 2021"},
			),
			newTable(model.TableDef{Name: "Maintenance", Color: "#4CAF50", Description: "Maintenance entries"},
				map[string]any{"vehicle": "Golf", "service": "Oil change", "mileage_km": 61500, "date": "2024-03-18"},
			),
			newTable(model.TableDef{Name: "Repairs", Color: "#FF9800", Description: "Repair history"},
				map[string]any{"vehicle": "Corolla", "repair": "Brake pads front", "cost_eur": 240.50, "date": "2024-06-02"},
			),
		),
		newTileData(model.Tile{Name: "Shopping", Color: "#E91E63", Description: "Purchase tracking"},
			newTable(model.TableDef{Name: "Products", Color: "#E91E63", Description: "Purchased items"},
				map[string]any{"name": "Standing desk", "category": "Furniture", "price_eur": 329.00},
				map[string]any{"name": "Espresso beans", "category": "Groceries", "price_eur": 14.90},
			),
			newTable(model.TableDef{Name: "Categories", Color: "#9C27B0", Description: "Product categories"},
				map[string]any{"name": "Furniture"},
				map[string]any{"name": "Groceries"},
			),
		),
		newTileData(model.Tile{Name: "Garden", Color: "#4CAF50", Description: "Planting log"},
			newTable(model.TableDef{Name: "Plants", Color: "#4CAF50", Description: "Plant master data"},
				map[string]any{"name": "Tomato", "variety": "San Marzano", "planted": "2024-04-12"},
			),
			newTable(model.TableDef{Name: "Harvests", Color: "#00BCD4", Description: "Harvest results"},
				map[string]any{"plant": "Tomato", "yield_kg": 3.2, "date": "2024-08-20"},
			),
		),
	}
}

func newTileData(tile model.Tile, tables ...*tableData) *tileData {
	td := &tileData{tile: tile, tables: make(map[string]*tableData)}
	for _, table := range tables {
		td.order = append(td.order, table.def.Name)
		td.tables[table.def.Name] = table
	}
	return td
}

func newTable(def model.TableDef, fieldSets ...map[string]any) *tableData {
	table := &tableData{def: def}
	for _, fields := range fieldSets {
		table.rows = append(table.rows, model.TableRow{RowID: uuid.NewString(), Fields: fields})
	}
	return table
}
