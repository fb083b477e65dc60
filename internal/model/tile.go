package model

// Tile represents a navigation tile on the main page.
type Tile struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// TableDef describes a browsable table behind a tile.
type TableDef struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// TableRow is a single row of sample data. Columns vary per table,
// so rows are free-form maps keyed by column name.
type TableRow struct {
	RowID  string         `json:"row_id"`
	Fields map[string]any `json:"fields"`
}

// AddRowRequest represents a request to add a row to a sample table.
type AddRowRequest struct {
	Fields map[string]any `json:"fields"`
}
