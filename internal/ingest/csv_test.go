package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `slug,projectName,projectType,status,type,price,carpetArea,lift,city,locality,Address info,aboutProperty
green-acres-2bhk-baner-pune-101,Green Acres,Residential,READY_TO_MOVE,2BHK,7500000,850,true,Pune,Baner,"Baner Road, Pune","Gym, Pool, Garden"
skyline-towers-3bhk-andheri-mumbai-42,Skyline Towers,Residential,UNDER_CONSTRUCTION,3BHK,21000000,1200,false,,,"Andheri West",Clubhouse
,,,,,,,,,,,
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	listings, err := ReadFile(path)

	require.NoError(t, err)
	require.Len(t, listings, 2, "blank rows are skipped")

	first := listings[0]
	assert.Equal(t, "green-acres-2bhk-baner-pune-101", first.Slug)
	assert.Equal(t, "Green Acres", first.ProjectName)
	assert.Equal(t, "2BHK", first.BHK)
	assert.Equal(t, "READY_TO_MOVE", first.Status)
	require.NotNil(t, first.Price)
	assert.Equal(t, 7500000.0, *first.Price)
	require.NotNil(t, first.PriceInCr)
	assert.Equal(t, 0.75, *first.PriceInCr)
	assert.True(t, first.Lift)
	assert.Equal(t, "Pune", first.City)
	assert.Equal(t, "Baner", first.Locality)
	assert.Equal(t, "Baner Road, Pune", first.Address)
	assert.Equal(t, "Gym, Pool, Garden", first.Amenities)
}

func TestReadFile_SlugLocationFallback(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	listings, err := ReadFile(path)
	require.NoError(t, err)

	// Second row has empty city/locality columns, so both come from the
	// slug segments: ...-andheri-mumbai-42.
	second := listings[1]
	assert.Equal(t, "Andheri", second.Locality)
	assert.Equal(t, "Mumbai", second.City)
}

func TestReadFile_PriceInCrRounding(t *testing.T) {
	path := writeCSV(t, `slug,projectName,price
p-x-pune-1,P,12345678
`)

	listings, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.NotNil(t, listings[0].PriceInCr)
	assert.Equal(t, 1.23, *listings[0].PriceInCr)
}

func TestReadFile_MissingFile(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("slug,projectName\ns1-baner-pune-1,A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("slug,projectName\ns2-kothrud-pune-2,B\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	listings, err := ReadDir(dir)

	require.NoError(t, err)
	assert.Len(t, listings, 2)
}

func TestBuildContent_CollapsesWhitespace(t *testing.T) {
	path := writeCSV(t, `slug,projectName,Address info
p-baner-pune-1,Green   Acres,"Baner Road,
Pune"
`)

	listings, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, listings, 1)

	content := listings[0].Content
	assert.Contains(t, content, "Project Name: Green Acres")
	assert.Contains(t, content, "Address: Baner Road, Pune")
	assert.NotContains(t, content, "\n")
	assert.NotContains(t, content, "  ")
}
