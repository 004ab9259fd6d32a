package pricing

// Printer is a catalog entry with its average power draw while printing.
type Printer struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	AvgKW float64 `json:"avg_kw"`
}

const (
	// CustomPrinterID selects the custom power draw of the input.
	CustomPrinterID  = "custom"
	DefaultPrinterID = "a1-mini"
)

var printers = []Printer{
	{ID: "a1-mini", Name: "A1 Mini", Brand: "Bambu Lab", AvgKW: 0.08},
	{ID: "a1", Name: "A1", Brand: "Bambu Lab", AvgKW: 0.10},
	{ID: "p1p", Name: "P1P", Brand: "Bambu Lab", AvgKW: 0.10},
	{ID: "p1s", Name: "P1S", Brand: "Bambu Lab", AvgKW: 0.10},
	{ID: "x1c", Name: "X1 Carbon", Brand: "Bambu Lab", AvgKW: 0.11},
	{ID: "h2d", Name: "H2D", Brand: "Bambu Lab", AvgKW: 0.20},
}

// Printers returns a copy of the printer catalog.
func Printers() []Printer {
	out := make([]Printer, len(printers))
	copy(out, printers)
	return out
}

// LookupPrinter finds a catalog printer. The custom id is never found.
func LookupPrinter(id string) (Printer, bool) {
	if id == CustomPrinterID {
		return Printer{}, false
	}
	for _, p := range printers {
		if p.ID == id {
			return p, true
		}
	}
	return Printer{}, false
}
