package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type MovieRepository struct {
	s *Store
}

func (r *MovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastMovieID++
	movie.ID = r.s.lastMovieID
	movie.CreatedAt = r.s.now()
	movie.Version = 1
	r.s.movies[movie.ID] = *movie

	return nil
}

func (r *MovieRepository) GetAll(
	ctx context.Context,
	filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	term := strings.ToLower(filters.Term)
	matched := make([]*domain.Movie, 0, len(r.s.movies))

	for _, m := range r.s.movies {
		if term != "" &&
			!strings.Contains(strings.ToLower(m.Title), term) &&
			!strings.Contains(strings.ToLower(m.Synopsis), term) {
			continue
		}

		movie := m
		matched = append(matched, &movie)
	}

	sortMovies(matched, filters.SortColumn(), filters.SortDirection() == "DESC")

	total := len(matched)
	start := min(filters.Offset(), total)
	end := min(start+filters.Limit(), total)

	return matched[start:end], domain.NewMetadata(total, filters.Page, filters.PageSize), nil
}

func sortMovies(movies []*domain.Movie, column string, desc bool) {
	less := func(a, b *domain.Movie) bool {
		switch column {
		case "title":
			return a.Title < b.Title
		case "release_date":
			return a.ReleaseDate.Before(b.ReleaseDate)
		case "rating":
			return a.Rating < b.Rating
		default:
			return a.ID < b.ID
		}
	}

	sort.SliceStable(movies, func(i, j int) bool {
		if desc {
			return less(movies[j], movies[i])
		}
		return less(movies[i], movies[j])
	})
}

func (r *MovieRepository) GetById(ctx context.Context, id domain.MovieID) (*domain.Movie, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	movie, ok := r.s.movies[id]
	if !ok {
		return nil, domain.ErrMovieNotFound
	}

	return &movie, nil
}

func (r *MovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.movies[movie.ID]
	if !ok {
		return domain.ErrMovieNotFound
	}

	if current.Version != movie.Version {
		return domain.ErrEditConflict
	}

	movie.Version++
	movie.CreatedAt = current.CreatedAt
	r.s.movies[movie.ID] = *movie

	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id domain.MovieID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.movies[id]; !ok {
		return domain.ErrMovieNotFound
	}

	for _, st := range r.s.showtimes {
		if st.MovieID == id {
			return domain.ErrMovieInUse
		}
	}

	delete(r.s.movies, id)

	return nil
}

type ShowroomRepository struct {
	s *Store
}

func (r *ShowroomRepository) Create(ctx context.Context, showroom *domain.Showroom) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.showrooms {
		if strings.EqualFold(existing.Name, showroom.Name) {
			return domain.ErrDuplicateName
		}
	}

	r.s.lastShowroomID++
	showroom.ID = r.s.lastShowroomID
	showroom.CreatedAt = r.s.now()
	r.s.showrooms[showroom.ID] = *showroom

	return nil
}

func (r *ShowroomRepository) GetById(ctx context.Context, id domain.ShowroomID) (*domain.Showroom, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	showroom, ok := r.s.showrooms[id]
	if !ok {
		return nil, domain.ErrShowroomNotFound
	}

	return &showroom, nil
}

type SeatTypeRepository struct {
	s *Store
}

func (r *SeatTypeRepository) Create(ctx context.Context, seatType *domain.SeatType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.seatTypes {
		if strings.EqualFold(existing.Name, seatType.Name) {
			return domain.ErrDuplicateName
		}
	}

	r.s.lastSeatTypeID++
	seatType.ID = r.s.lastSeatTypeID
	r.s.seatTypes[seatType.ID] = *seatType

	return nil
}

func (r *SeatTypeRepository) GetById(ctx context.Context, id domain.SeatTypeID) (*domain.SeatType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seatType, ok := r.s.seatTypes[id]
	if !ok {
		return nil, domain.ErrSeatTypeNotFound
	}

	return &seatType, nil
}

func (r *SeatTypeRepository) GetAll(ctx context.Context) ([]domain.SeatType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.allSeatTypes(), nil
}

func (s *Store) allSeatTypes() []domain.SeatType {
	seatTypes := make([]domain.SeatType, 0, len(s.seatTypes))
	for _, st := range s.seatTypes {
		seatTypes = append(seatTypes, st)
	}

	sort.Slice(seatTypes, func(i, j int) bool { return seatTypes[i].ID < seatTypes[j].ID })

	return seatTypes
}

type SeatRepository struct {
	s *Store
}

func (r *SeatRepository) Create(ctx context.Context, seat *domain.Seat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	showroom, ok := r.s.showrooms[seat.ShowroomID]
	if !ok {
		return domain.ErrShowroomNotFound
	}

	if _, ok := r.s.seatTypes[seat.SeatTypeID]; !ok {
		return domain.ErrSeatTypeNotFound
	}

	count := 0
	for _, existing := range r.s.seats {
		if existing.ShowroomID != seat.ShowroomID {
			continue
		}

		if existing.Row == seat.Row && existing.Number == seat.Number {
			return domain.ErrDuplicateSeat
		}

		count++
	}

	if count >= showroom.Capacity {
		return domain.ErrCapacityExceeded
	}

	r.s.lastSeatID++
	seat.ID = r.s.lastSeatID
	r.s.seats[seat.ID] = *seat

	return nil
}

func (r *SeatRepository) GetById(ctx context.Context, id domain.SeatID) (*domain.Seat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seat, ok := r.s.seats[id]
	if !ok {
		return nil, domain.ErrSeatNotFound
	}

	return &seat, nil
}

func (r *SeatRepository) GetByShowroom(ctx context.Context, showroomID domain.ShowroomID) ([]domain.Seat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seats := make([]domain.Seat, 0)
	for _, seat := range r.s.seats {
		if seat.ShowroomID == showroomID {
			seats = append(seats, seat)
		}
	}

	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Number < seats[j].Number
	})

	return seats, nil
}
