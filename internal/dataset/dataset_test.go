package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/attendance-map/internal/fetcher"
)

func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "attendance.geojson"))
	require.NoError(t, err)
	ds, err := Parse(raw, Options{})
	require.NoError(t, err)
	return ds
}

func TestParse_Fixture(t *testing.T) {
	ds := loadFixture(t)

	assert.Len(t, ds.Features(), 12)
	assert.Equal(t, []YearAttribute{
		"2010 Avg", "2011 Avg", "2012 Avg", "2013 Avg", "2014 Avg", "2015 Avg", "2016 Avg",
	}, ds.Years())
	assert.Equal(t, KnownDivisions, ds.Divisions())

	first := ds.Features()[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "Los Angeles Dodgers", first.Name)
	assert.Equal(t, DivisionNLWest, first.Division)
	v, ok := first.Value("2010 Avg")
	require.True(t, ok)
	assert.Equal(t, 43979.0, v)

	lat, lng, ok := first.LatLng()
	require.True(t, ok)
	assert.InDelta(t, 34.0739, lat, 1e-9)
	assert.InDelta(t, -118.24, lng, 1e-9)
}

func TestParse_YearOrderFollowsDeclaration(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"2016 Avg":1,"Team Name":"A","2011 Avg":2,"Division":"NL West","2013 Avg":3},
		 "geometry":{"type":"Point","coordinates":[0,0]}}]}`)

	ds, err := Parse(raw, Options{})
	require.NoError(t, err)
	assert.Equal(t, []YearAttribute{"2016 Avg", "2011 Avg", "2013 Avg"}, ds.Years())
}

func TestParse_CustomPattern(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"2010 Avg":1,"2010 Total":10,"2011 Total":20},
		 "geometry":{"type":"Point","coordinates":[0,0]}}]}`)

	ds, err := Parse(raw, Options{AttributePattern: "Total"})
	require.NoError(t, err)
	assert.Equal(t, []YearAttribute{"2010 Total", "2011 Total"}, ds.Years())
}

func TestParse_EmptyCollection(t *testing.T) {
	_, err := Parse([]byte(`{"type":"FeatureCollection","features":[]}`), Options{})
	require.Error(t, err)

	var shapeErr *DataShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Contains(t, shapeErr.Reason, "empty")
}

func TestParse_NoAttendanceKeys(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"Team Name":"A","Division":"NL West"},
		 "geometry":{"type":"Point","coordinates":[0,0]}}]}`)

	_, err := Parse(raw, Options{})
	var shapeErr *DataShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Contains(t, err.Error(), `"Avg"`)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"type":`), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestParse_NotAFeatureCollection(t *testing.T) {
	_, err := Parse([]byte(`{"type":"Point","coordinates":[0,0]}`), Options{})
	assert.Error(t, err)
}

func TestParse_MalformedFeatures(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"Team Name":"A","Division":"NL West","2010 Avg":"1200","2011 Avg":400},
		 "geometry":{"type":"Point","coordinates":[-100,40]}},
		{"type":"Feature","properties":{"Team Name":"B","Division":"","2010 Avg":100},
		 "geometry":{"type":"Point","coordinates":[-90,35]}},
		{"type":"Feature","properties":{"Team Name":"C","Division":"AL East","2010 Avg":"n/a","2011 Avg":50},
		 "geometry":null}]}`)

	ds, err := Parse(raw, Options{})
	require.NoError(t, err)
	require.Len(t, ds.Features(), 3)

	a := ds.Features()[0]
	v, ok := a.Value("2010 Avg")
	require.True(t, ok, "numeric strings are coerced")
	assert.Equal(t, 1200.0, v)

	b := ds.Features()[1]
	_, ok = b.Value("2011 Avg")
	assert.False(t, ok)

	c := ds.Features()[2]
	_, ok = c.Value("2010 Avg")
	assert.False(t, ok)
	_, _, ok = c.LatLng()
	assert.False(t, ok)

	assert.Equal(t, []string{"NL West", "AL East"}, ds.Divisions())
}

func TestVisible(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"Team Name":"A","Division":"NL West","2010 Avg":100},"geometry":{"type":"Point","coordinates":[0,0]}},
		{"type":"Feature","properties":{"Team Name":"B","2010 Avg":200},"geometry":{"type":"Point","coordinates":[1,1]}},
		{"type":"Feature","properties":{"Team Name":"C","Division":"AL East","2010 Avg":300},"geometry":{"type":"Point","coordinates":[2,2]}},
		{"type":"Feature","properties":{"Team Name":"D","Division":"NL West","2010 Avg":400},"geometry":{"type":"Point","coordinates":[3,3]}}]}`)

	ds, err := Parse(raw, Options{})
	require.NoError(t, err)

	all := ds.Visible(AllDivisions)
	require.Len(t, all, 3, "features without a division are excluded under all")
	assert.Equal(t, "A", all[0].Name)
	assert.Equal(t, "C", all[1].Name)
	assert.Equal(t, "D", all[2].Name)

	west := ds.Visible(DivisionNLWest)
	require.Len(t, west, 2)
	assert.Equal(t, "A", west[0].Name)
	assert.Equal(t, "D", west[1].Name)

	assert.Empty(t, ds.Visible(DivisionALCentral))
	assert.True(t, ds.HasDivision(DivisionALEast))
	assert.False(t, ds.HasDivision(DivisionALWest))
}

func TestVisible_AllRoundTrip(t *testing.T) {
	ds := loadFixture(t)
	full := len(ds.Visible(AllDivisions))
	for _, div := range ds.Divisions() {
		assert.Len(t, ds.Visible(div), 2)
		assert.Len(t, ds.Visible(AllDivisions), full)
	}
}

func TestYearAttribute_Year(t *testing.T) {
	assert.Equal(t, "2010", YearAttribute("2010 Avg").Year())
	assert.Equal(t, "2016", YearAttribute("2016 Avg Attendance").Year())
	assert.Equal(t, "Avg", YearAttribute("Avg").Year())
	assert.Equal(t, "2010 Avg", YearAttribute("2010 Avg").String())
}

func TestLoad_File(t *testing.T) {
	ds, err := Load(context.Background(), fetcher.NewFileFetcher(), filepath.Join("testdata", "attendance.geojson"), Options{})
	require.NoError(t, err)
	assert.Len(t, ds.Years(), 7)
}

func TestLoad_HTTP(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "attendance.geojson"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(raw)
	}))
	defer srv.Close()

	r := fetcher.NewRouter(fetcher.HTTPOptions{UserAgent: "test-agent"})
	ds, err := Load(context.Background(), r, srv.URL+"/data/attendance.geojson", Options{})
	require.NoError(t, err)
	assert.Len(t, ds.Features(), 12)
}

func TestLoad_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := fetcher.NewRouter(fetcher.HTTPOptions{UserAgent: "test-agent"})
	_, err := Load(context.Background(), r, srv.URL+"/data/attendance.geojson", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset: load")
}
