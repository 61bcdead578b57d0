package types

// Table is the rendering-ready form of one report result: an ordered
// sequence of rows under fixed column headers.
type Table struct {
	Name    ReportName
	Columns []string
	Rows    [][]string
}

// RunResult pairs one executed report with its outcome. A failed report
// carries its error here instead of aborting the rest of the run.
type RunResult struct {
	Name  ReportName
	Table *Table
	Err   error
}
