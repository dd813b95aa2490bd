package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/cinema-ticketing/api"
	"github.com/metinatakli/cinema-ticketing/internal/mocks"
	"github.com/metinatakli/cinema-ticketing/internal/service"
	"github.com/metinatakli/cinema-ticketing/internal/validator"
)

var testNow = time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)

// testRepos holds one mock per repository. Tests set the Func fields or
// expectations they need, anything else panics when called.
type testRepos struct {
	movies    *mocks.MockMovieRepo
	showrooms *mocks.MockShowroomRepo
	seatTypes *mocks.MockSeatTypeRepo
	seats     *mocks.MockSeatRepo
	showtimes *mocks.MockShowtimeRepo
	prices    *mocks.MockPriceRepo
	tickets   *mocks.MockTicketRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		movies:    &mocks.MockMovieRepo{},
		showrooms: &mocks.MockShowroomRepo{},
		seatTypes: &mocks.MockSeatTypeRepo{},
		seats:     &mocks.MockSeatRepo{},
		showtimes: new(mocks.MockShowtimeRepo),
		prices:    new(mocks.MockPriceRepo),
		tickets:   new(mocks.MockTicketRepo),
	}
}

func (r *testRepos) repositories() service.Repositories {
	return service.Repositories{
		Movies:    r.movies,
		Showrooms: r.showrooms,
		SeatTypes: r.seatTypes,
		Seats:     r.seats,
		Showtimes: r.showtimes,
		Prices:    r.prices,
		Tickets:   r.tickets,
	}
}

func newTestApplication(repos service.Repositories, opts ...func(*Application)) *Application {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := &Application{
		config:    Config{Env: "test", Store: StoreMemory},
		logger:    logger,
		validator: validator.NewValidator(),
		services:  service.New(repos, logger, func() time.Time { return testNow }, service.BookingConfig{}),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func errorCase(status int, message string) struct {
	wantStatus     int
	wantErrMessage string
} {
	return struct {
		wantStatus     int
		wantErrMessage string
	}{status, message}
}

func ptr[T any](v T) *T {
	return &v
}
