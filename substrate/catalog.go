// Package substrate serves the plastic substrate catalog: structure notation
// (SMILES) per plastic type, read from a two-column CSV file.
package substrate

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/teranos/plaszyme/errors"
)

// Entry is one catalog row. Blends have no single structure; their second
// column is kept as Note and SMILES is empty.
type Entry struct {
	Name   string  `json:"name"`
	SMILES *string `json:"smiles"`
	Note   *string `json:"note"`
}

// aliases maps tag spellings used in the enzyme corpus to catalog names.
var aliases = map[string]string{
	"P3HB_CO_3MP": "P(3HB-co-3MP)",
	"P3HB-CO-3MP": "P(3HB-co-3MP)",
	"O_PVA":       "O-PVA",
	"PBSEBT":      "PBSeT",
	"ECOVIO_FT":   "ECOFLEX",
}

// Catalog is an immutable, case-insensitive name to Entry lookup.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// Parse reads a catalog CSV. The first row is a header and is skipped.
// Rows with fewer than two columns are ignored; a later duplicate name
// replaces an earlier one.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	c := &Catalog{byName: make(map[string]int)}

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return c, nil
		}
		return nil, errors.Wrap(err, "failed to read catalog header")
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read catalog row")
		}
		if len(row) < 2 {
			continue
		}

		name := strings.TrimSpace(row[0])
		value := strings.TrimSpace(row[1])
		if name == "" {
			continue
		}

		e := Entry{Name: name}
		if strings.Contains(name, "Blend") {
			e.Note = &value
		} else {
			e.SMILES = &value
		}
		c.put(e)
	}
	return c, nil
}

// Load parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open substrate catalog %s", path)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse substrate catalog %s", path)
	}
	return c, nil
}

func (c *Catalog) put(e Entry) {
	key := strings.ToUpper(e.Name)
	if i, ok := c.byName[key]; ok {
		c.entries[i] = e
		return
	}
	c.byName[key] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Lookup finds a substrate by name, case-insensitively, after alias mapping.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = strings.ToUpper(alias)
	}
	i, ok := c.byName[key]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns all entries in file order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
