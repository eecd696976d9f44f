package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arkforge/tracked/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := store.New(store.Config{Folder: t.TempDir()})
	require.NoError(t, err)
	return New(s, zap.NewNop().Sugar())
}

func postTracks(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracks/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestUpdateTracksCreatesAndReports(t *testing.T) {
	srv := newTestServer(t)

	body := `{"data":[
		{"track_id":"T1","point":{"ts":1000,"lat":50.0,"lng":4.0,"hdg":90,"gs":120,"alt":3000}},
		{"track_id":"T2","point":{"ts":1000,"lat":1,"lng":1,"hdg":0,"gs":0,"alt":0}}
	]}`

	rec := postTracks(t, srv, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2 points received, 2 tracks updated", resp.Status)
}

func TestUpdateTracksSequenceViolationIsBadRequest(t *testing.T) {
	srv := newTestServer(t)

	postTracks(t, srv, `{"data":[{"track_id":"T1","point":{"ts":1000}}]}`)
	rec := postTracks(t, srv, `{"data":[{"track_id":"T1","point":{"ts":999}}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShowTrackRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	postTracks(t, srv, `{"data":[{"track_id":"T1","point":{"ts":1000,"lat":50.0,"lng":4.0,"hdg":90,"gs":120,"alt":3000}}]}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracks/T1/json", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp trackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "T1", resp.TrackID)
	assert.Equal(t, 1, resp.Count)
}

func TestShowTrackMissingIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracks/ghost/json", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpointExposesGauges(t *testing.T) {
	srv := newTestServer(t)
	postTracks(t, srv, `{"data":[{"track_id":"T1","point":{"ts":1000}}]}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tracked_track_count")
	assert.Contains(t, rec.Body.String(), "tracked_point_count")
}
