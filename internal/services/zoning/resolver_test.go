// internal/services/zoning/resolver_test.go
package zoning

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permitcheck/internal/common/logger"
)

type stubGeocoder struct {
	coords *coordinates
	err    error
}

func (s *stubGeocoder) geocode(_ context.Context, _ string) (*coordinates, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.coords, nil
}

func newTestResolver(t *testing.T, endpoints []MunicipalEndpoint) *Resolver {
	t.Helper()
	r, err := NewResolver(&Config{
		MunicipalTimeout:   2 * time.Second,
		MunicipalEndpoints: endpoints,
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return r
}

func TestResolveWithoutInputsReturnsDefault(t *testing.T) {
	r := newTestResolver(t, nil)

	info := r.Resolve(context.Background(), "", "")

	assert.Equal(t, "R-2", info.District)
	assert.Equal(t, ClassResidential, info.Classification)
	assert.Equal(t, SourceDefault, info.Source)
	assert.Contains(t, info.Restrictions, "Front setback: minimum 20 feet")
	assert.Contains(t, info.Restrictions, "Maximum height: 30 feet")
}

func TestResolveIsDeterministicForDefaultPath(t *testing.T) {
	r := newTestResolver(t, nil)

	first := r.Resolve(context.Background(), "", "")
	second := r.Resolve(context.Background(), "", "")

	assert.Equal(t, first, second)
}

func TestResolveUsesFirstSuccessfulMunicipalAPI(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	succeeding := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"zoning_district": "C-1"}`))
	}))
	defer succeeding.Close()

	r := newTestResolver(t, []MunicipalEndpoint{
		{City: "failing_city", URL: failing.URL},
		{City: "succeeding_city", URL: succeeding.URL},
	})
	r.geocoder = &stubGeocoder{coords: &coordinates{Lat: 43.07, Lng: -89.4}}

	info := r.Resolve(context.Background(), "123 Main St, Madison WI", "")

	assert.Equal(t, "C-1", info.District)
	assert.Equal(t, ClassCommercial, info.Classification)
	assert.Equal(t, SourceMunicipalAPI, info.Source)
	assert.Contains(t, info.Restrictions, "Maximum lot coverage: 70%")
}

func TestResolveInfersWhenAllMunicipalProbesFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	r := newTestResolver(t, []MunicipalEndpoint{
		{City: "failing_city", URL: failing.URL},
	})
	r.geocoder = &stubGeocoder{coords: &coordinates{Lat: 43.07, Lng: -89.4}}

	info := r.Resolve(context.Background(), "123 Main St, Madison WI", "")

	assert.Equal(t, "R-2", info.District)
	assert.Equal(t, SourceInferred, info.Source)
}

func TestResolveFallsBackToDefaultWhenGeocodingFails(t *testing.T) {
	r := newTestResolver(t, nil)
	r.geocoder = &stubGeocoder{err: errors.New("quota exceeded")}

	info := r.Resolve(context.Background(), "nowhere", "")

	assert.Equal(t, SourceDefault, info.Source)
	assert.Equal(t, "R-2", info.District)
}

func TestResolveParcelLookupNotSupported(t *testing.T) {
	r := newTestResolver(t, nil)

	// Parcel-only lookups currently degrade to the default rule set.
	info := r.Resolve(context.Background(), "", "0710-123-4567-8")

	assert.Equal(t, SourceDefault, info.Source)
	assert.Equal(t, "R-2", info.District)
}

func TestResolveWithoutGeocoderSkipsMunicipalProbes(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = w.Write([]byte(`{"zoning_district": "I-1"}`))
	}))
	defer server.Close()

	r := newTestResolver(t, []MunicipalEndpoint{{City: "city", URL: server.URL}})

	info := r.Resolve(context.Background(), "123 Main St", "")

	assert.False(t, called, "municipal APIs must not be probed without coordinates")
	assert.Equal(t, SourceDefault, info.Source)
}
