package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecoSparkAPI/internal/types/center"
)

// ErrNoPlacesProvider is returned when neither a Google Places key nor a
// Yelp key is configured.
var ErrNoPlacesProvider = errors.New("no external places provider configured")

const (
	placesNearbyURL = "https://places.googleapis.com/v1/places:searchNearby"
	placesTextURL   = "https://places.googleapis.com/v1/places:searchText"
	yelpSearchURL   = "https://api.yelp.com/v3/businesses/search"

	placesFieldMask = "places.displayName,places.formattedAddress,places.location,places.types,places.rating,places.userRatingCount,places.nationalPhoneNumber,places.websiteUri"
)

type CenterService struct {
	db     Pool
	client *http.Client
}

func NewCenterService(db Pool) *CenterService {
	return &CenterService{
		db:     db,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *CenterService) GetAllCenters(ctx context.Context) ([]center.RecyclingCenter, error) {
	query := `
	SELECT id, name, address, latitude, longitude
	FROM recycling_centers
	ORDER BY name
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list centers: %w", err)
	}
	defer rows.Close()

	var centers []center.RecyclingCenter
	for rows.Next() {
		var c center.RecyclingCenter
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan center: %w", err)
		}
		centers = append(centers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read centers: %w", err)
	}

	return centers, nil
}

func (s *CenterService) CreateCenter(ctx context.Context, req *center.CreateCenterRequest) (*center.RecyclingCenter, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("name and address are required")
	}

	c := &center.RecyclingCenter{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	query := `
	INSERT INTO recycling_centers (id, name, address, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.Exec(ctx, query, c.ID, c.Name, c.Address, c.Latitude, c.Longitude); err != nil {
		return nil, fmt.Errorf("failed to create center: %w", err)
	}

	return c, nil
}

// NearbyParams bounds an external nearby-centers search.
type NearbyParams struct {
	Query    string
	Country  string // 2-letter code
	Lat      *float64
	Lng      *float64
	RadiusKm float64
	SWLat    *float64
	SWLng    *float64
	NELat    *float64
	NELng    *float64
}

func (p *NearbyParams) radiusMeters() float64 {
	km := p.RadiusKm
	if km < 1 {
		km = 1
	}
	if km > 50 {
		km = 50
	}
	return km * 1000
}

func (p *NearbyParams) withinBounds(lat, lng float64) bool {
	if p.SWLat == nil || p.SWLng == nil || p.NELat == nil || p.NELng == nil {
		return true
	}
	return *p.SWLat <= lat && lat <= *p.NELat && *p.SWLng <= lng && lng <= *p.NELng
}

// FindNearby queries Google Places (New, v1) when a key is configured,
// falling back to Yelp Fusion. Results are filtered to the caller's map
// bounds when provided.
func (s *CenterService) FindNearby(ctx context.Context, params *NearbyParams) (*center.NearbyResponse, error) {
	gmapsKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if gmapsKey == "" {
		gmapsKey = os.Getenv("GOOGLE_PLACES_API_KEY")
	}
	if gmapsKey != "" {
		return s.findNearbyGoogle(ctx, gmapsKey, params)
	}

	if yelpKey := os.Getenv("YELP_API_KEY"); yelpKey != "" {
		return s.findNearbyYelp(ctx, yelpKey, params)
	}

	return nil, ErrNoPlacesProvider
}

type placesLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type placesResult struct {
	Places []struct {
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress    string          `json:"formattedAddress"`
		Location            *placesLocation `json:"location"`
		Types               []string        `json:"types"`
		Rating              float64         `json:"rating"`
		UserRatingCount     int             `json:"userRatingCount"`
		NationalPhoneNumber string          `json:"nationalPhoneNumber"`
		WebsiteURI          string          `json:"websiteUri"`
	} `json:"places"`
}

func (s *CenterService) placesRequest(ctx context.Context, apiKey, url string, payload map[string]any) (*placesResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode places payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", apiKey)
	req.Header.Set("X-Goog-FieldMask", placesFieldMask)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places request returned status %d", resp.StatusCode)
	}

	var result placesResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode places response: %w", err)
	}

	return &result, nil
}

func circlePayload(lat, lng, radiusM float64) map[string]any {
	return map[string]any{
		"circle": map[string]any{
			"center": map[string]any{"latitude": lat, "longitude": lng},
			"radius": radiusM,
		},
	}
}

func (s *CenterService) resolveQueryLocation(ctx context.Context, apiKey string, params *NearbyParams) error {
	countryNames := map[string]string{
		"in": "India", "us": "USA", "gb": "UK", "ca": "Canada", "au": "Australia",
	}
	label := countryNames[params.Country]
	if label == "" && params.Country != "" {
		label = strings.ToUpper(params.Country)
	}
	textQuery := params.Query
	if label != "" {
		textQuery += ", " + label
	}

	payload := map[string]any{
		"textQuery":      textQuery,
		"maxResultCount": 1,
	}
	if params.Country != "" {
		payload["regionCode"] = strings.ToUpper(params.Country)
	}
	if params.SWLat != nil && params.SWLng != nil && params.NELat != nil && params.NELng != nil {
		payload["locationBias"] = map[string]any{
			"rectangle": map[string]any{
				"low":  map[string]any{"latitude": *params.SWLat, "longitude": *params.SWLng},
				"high": map[string]any{"latitude": *params.NELat, "longitude": *params.NELng},
			},
		}
	}

	result, err := s.placesRequest(ctx, apiKey, placesTextURL, payload)
	if err != nil {
		return err
	}
	if len(result.Places) == 0 || result.Places[0].Location == nil {
		return fmt.Errorf("could not resolve place %q to coordinates", params.Query)
	}

	params.Lat = &result.Places[0].Location.Latitude
	params.Lng = &result.Places[0].Location.Longitude
	return nil
}

func (s *CenterService) collectPlaces(result *placesResult, params *NearbyParams, source string) []center.NearbyCenter {
	// A user who explicitly selected another country does not want
	// cross-country noise from the default US bias.
	excludeUS := params.Country != "" && params.Country != "us"

	var centers []center.NearbyCenter
	for _, p := range result.Places {
		if p.Location == nil {
			continue
		}
		name := p.DisplayName.Text
		if name == "" {
			name = "Recycling Center"
		}
		address := p.FormattedAddress
		if address == "" {
			address = "Address unavailable"
		}
		if excludeUS && (strings.Contains(address, "United States") || strings.HasSuffix(address, ", USA") || p.Location.Longitude < -30) {
			continue
		}
		if !params.withinBounds(p.Location.Latitude, p.Location.Longitude) {
			continue
		}
		centers = append(centers, center.NearbyCenter{
			Name:            name,
			Address:         address,
			Latitude:        p.Location.Latitude,
			Longitude:       p.Location.Longitude,
			Source:          source,
			Types:           p.Types,
			Rating:          p.Rating,
			UserRatingCount: p.UserRatingCount,
			Phone:           p.NationalPhoneNumber,
			Website:         p.WebsiteURI,
		})
	}
	return centers
}

func (s *CenterService) findNearbyGoogle(ctx context.Context, apiKey string, params *NearbyParams) (*center.NearbyResponse, error) {
	if params.Query != "" && (params.Lat == nil || params.Lng == nil) {
		if err := s.resolveQueryLocation(ctx, apiKey, params); err != nil {
			return nil, err
		}
	}
	if params.Lat == nil || params.Lng == nil {
		return nil, fmt.Errorf("lat/lng or a resolvable place query is required")
	}

	radiusM := params.radiusMeters()

	nearbyPayload := map[string]any{
		"locationRestriction": circlePayload(*params.Lat, *params.Lng, radiusM),
		"includedTypes":       []string{"recycling_center", "electronics_store"},
		"rankPreference":      "DISTANCE",
		"maxResultCount":      20,
	}

	var centers []center.NearbyCenter
	if result, err := s.placesRequest(ctx, apiKey, placesNearbyURL, nearbyPayload); err == nil {
		centers = s.collectPlaces(result, params, "google_places_new_nearby")
	}

	// Nearby search can come back empty or fail for sparse areas; a
	// broader text search still finds something useful there.
	if len(centers) == 0 {
		textPayload := map[string]any{
			"textQuery":      fmt.Sprintf("electronics recycling near %f,%f", *params.Lat, *params.Lng),
			"locationBias":   circlePayload(*params.Lat, *params.Lng, radiusM),
			"maxResultCount": 20,
		}
		if params.Country != "" {
			textPayload["regionCode"] = strings.ToUpper(params.Country)
		}
		result, err := s.placesRequest(ctx, apiKey, placesTextURL, textPayload)
		if err != nil {
			return nil, fmt.Errorf("google places search failed: %w", err)
		}
		centers = s.collectPlaces(result, params, "google_places_new_text")
	}

	if centers == nil {
		centers = []center.NearbyCenter{}
	}
	return &center.NearbyResponse{Centers: centers, Provider: "google_places_new"}, nil
}

func (s *CenterService) findNearbyYelp(ctx context.Context, apiKey string, params *NearbyParams) (*center.NearbyResponse, error) {
	if params.Lat == nil || params.Lng == nil {
		return nil, fmt.Errorf("lat/lng is required for yelp search")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, yelpSearchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build yelp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	q := req.URL.Query()
	q.Set("term", "electronics recycling, e-waste recycling, recycling center")
	q.Set("latitude", fmt.Sprintf("%f", *params.Lat))
	q.Set("longitude", fmt.Sprintf("%f", *params.Lng))
	q.Set("radius", fmt.Sprintf("%d", int(params.radiusMeters())))
	q.Set("limit", "30")
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yelp search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yelp search returned status %d", resp.StatusCode)
	}

	var data struct {
		Businesses []struct {
			Name        string `json:"name"`
			Coordinates struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"coordinates"`
			Location struct {
				DisplayAddress []string `json:"display_address"`
			} `json:"location"`
		} `json:"businesses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode yelp response: %w", err)
	}

	centers := []center.NearbyCenter{}
	for _, b := range data.Businesses {
		if b.Coordinates.Latitude == 0 && b.Coordinates.Longitude == 0 {
			continue
		}
		name := b.Name
		if name == "" {
			name = "Recycling Center"
		}
		address := strings.Join(b.Location.DisplayAddress, ", ")
		if address == "" {
			address = "Address unavailable"
		}
		centers = append(centers, center.NearbyCenter{
			Name:      name,
			Address:   address,
			Latitude:  b.Coordinates.Latitude,
			Longitude: b.Coordinates.Longitude,
			Source:    "yelp",
		})
	}

	return &center.NearbyResponse{Centers: centers, Provider: "yelp"}, nil
}
