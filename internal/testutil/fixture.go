// Package testutil holds shared test fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/ivlev/pcoa2video/internal/metadata"
	"github.com/ivlev/pcoa2video/internal/ordination"
)

// MappingHeaders are the columns of the nine-sample mouse study fixture.
var MappingHeaders = []string{"SampleID", "LinkerPrimerSequence", "Treatment", "DOB"}

// MappingData returns a fresh copy of the fixture metadata.
func MappingData() map[string][]string {
	return map[string][]string{
		"PC.481": {"PC.481", "YATGCTGCCTCCCGTAGGAGT", "Control", "20070314"},
		"PC.607": {"PC.607", "YATGCTGCCTCCCGTAGGAGT", "Fast", "20071112"},
		"PC.634": {"PC.634", "YATGCTGCCTCCCGTAGGAGT", "Fast", "20080116"},
		"PC.635": {"PC.635", "YATGCTGCCTCCCGTAGGAGT", "Fast", "20080116"},
		"PC.593": {"PC.593", "YATGCTGCCTCCCGTAGGAGT", "Control", "20071210"},
		"PC.636": {"PC.636", "YATGCTGCCTCCCGTAGGAGT", "Fast", "20080116"},
		"PC.355": {"PC.355", "YATGCTGCCTCCCGTAGGAGT", "Control", "20061218"},
		"PC.354": {"PC.354", "YATGCTGCCTCCCGTAGGAGT", "Control", "20061218"},
		"PC.356": {"PC.356", "YATGCTGCCTCCCGTAGGAGT", "Control", "20061126"},
	}
}

// Coordinates returns a fresh copy of the fixture ordination.
func Coordinates() ordination.Coordinates {
	return ordination.Coordinates{
		"PC.636": {X: -0.276542, Y: -0.144964, Z: 0.066647},
		"PC.635": {X: -0.237661, Y: 0.046053, Z: -0.138136},
		"PC.356": {X: 0.228820, Y: -0.130142, Z: -0.287149},
		"PC.481": {X: 0.042263, Y: -0.013968, Z: 0.063531},
		"PC.354": {X: 0.280399, Y: -0.006013, Z: 0.023485},
		"PC.593": {X: 0.232873, Y: 0.139788, Z: 0.322871},
		"PC.355": {X: 0.170518, Y: -0.194113, Z: -0.030897},
		"PC.607": {X: -0.091330, Y: 0.424147, Z: -0.135627},
		"PC.634": {X: -0.349339, Y: -0.120788, Z: 0.115275},
	}
}

// Table returns the fixture metadata as a table.
func Table(t testing.TB) *metadata.Table {
	t.Helper()
	table, err := metadata.FromMap(MappingHeaders, MappingData())
	if err != nil {
		t.Fatalf("fixture table: %v", err)
	}
	return table
}

// WriteInputs writes the fixture as a mapping file and a coordinates file in
// dir and returns their paths.
func WriteInputs(t testing.TB, dir string) (mappingPath, coordsPath string) {
	t.Helper()

	data := MappingData()
	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var mapping strings.Builder
	mapping.WriteString("#" + strings.Join(MappingHeaders, "\t") + "\n")
	for _, id := range ids {
		mapping.WriteString(strings.Join(data[id], "\t") + "\n")
	}

	coords := Coordinates()
	var ord strings.Builder
	ord.WriteString("SampleID\tPC1\tPC2\tPC3\n")
	for _, id := range ids {
		p := coords[id]
		fmt.Fprintf(&ord, "%s\t%g\t%g\t%g\n", id, p.X, p.Y, p.Z)
	}

	mappingPath = filepath.Join(dir, "mapping.txt")
	coordsPath = filepath.Join(dir, "coords.tsv")
	if err := os.WriteFile(mappingPath, []byte(mapping.String()), 0644); err != nil {
		t.Fatalf("write mapping: %v", err)
	}
	if err := os.WriteFile(coordsPath, []byte(ord.String()), 0644); err != nil {
		t.Fatalf("write coordinates: %v", err)
	}
	return mappingPath, coordsPath
}
