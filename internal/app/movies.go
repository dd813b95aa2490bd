package app

import (
	"net/http"
	"time"

	"github.com/metinatakli/cinema-ticketing/api"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
	"github.com/oapi-codegen/runtime/types"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	DefaultSort     = "id"
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	page, err := readIntQuery(r, "page")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pageSize, err := readIntQuery(r, "pageSize")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	params := api.GetMoviesParams{
		Page:     page,
		PageSize: pageSize,
		Sort:     readStringQuery(r, "sort"),
		Term:     readStringQuery(r, "term"),
	}

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	filters := toMovieFilters(params)

	movies, metadata, err := app.services.Catalog.ListMovies(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{
		Movies:   toApiMovies(movies),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var input api.MovieRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie := toDomainMovie(input)

	err = app.services.Catalog.CreateMovie(r.Context(), movie)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("movie created", "movie_id", movie.ID)

	err = app.writeJSON(w, http.StatusCreated, toApiMovie(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam[domain.MovieID](r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.services.Catalog.GetMovie(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiMovie(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam[domain.MovieID](r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.UpdateMovieRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	movie := toDomainMovie(input.MovieRequest)
	movie.ID = id
	movie.Version = input.Version

	err = app.services.Catalog.UpdateMovie(r.Context(), movie)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiMovie(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam[domain.MovieID](r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.services.Catalog.DeleteMovie(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toMovieFilters(params api.GetMoviesParams) domain.MovieFilters {
	filters := domain.MovieFilters{
		Pagination: domain.Pagination{
			Page:     DefaultPage,
			PageSize: DefaultPageSize,
			Sort:     DefaultSort,
		},
	}

	if params.Page != nil {
		filters.Page = *params.Page
	}
	if params.PageSize != nil {
		filters.PageSize = *params.PageSize
	}
	if params.Sort != nil {
		filters.Sort = *params.Sort
	}
	if params.Term != nil {
		filters.Term = *params.Term
	}

	return filters
}

func toDomainMovie(input api.MovieRequest) *domain.Movie {
	return &domain.Movie{
		Title:       input.Title,
		Synopsis:    input.Synopsis,
		Genre:       input.Genre,
		Language:    input.Language,
		Rating:      input.Rating,
		Runtime:     time.Duration(input.RuntimeMinutes) * time.Minute,
		ReleaseDate: input.ReleaseDate.Time,
	}
}

func toApiMovies(movies []*domain.Movie) []api.MovieResponse {
	resp := make([]api.MovieResponse, len(movies))
	for i, movie := range movies {
		resp[i] = toApiMovie(movie)
	}

	return resp
}

func toApiMovie(movie *domain.Movie) api.MovieResponse {
	if movie == nil {
		return api.MovieResponse{}
	}

	return api.MovieResponse{
		Id:             int(movie.ID),
		Title:          movie.Title,
		Synopsis:       movie.Synopsis,
		Genre:          movie.Genre,
		Language:       movie.Language,
		Rating:         movie.Rating,
		RuntimeMinutes: int(movie.Runtime / time.Minute),
		ReleaseDate:    types.Date{Time: movie.ReleaseDate},
		CreatedAt:      movie.CreatedAt,
		Version:        movie.Version,
	}
}

func toApiMetadata(metadata *domain.Metadata) *api.Metadata {
	if metadata == nil {
		return nil
	}

	return &api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
