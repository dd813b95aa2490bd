package service

import (
	"time"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

func (s *ServiceSuite) TestAddSeat() {
	tests := []struct {
		name    string
		seat    domain.Seat
		wantErr error
	}{
		{
			name:    "duplicate coordinates",
			seat:    domain.Seat{ShowroomID: s.showroom.ID, SeatTypeID: s.standard.ID, Row: 1, Number: 1},
			wantErr: domain.ErrDuplicateSeat,
		},
		{
			name:    "showroom is full",
			seat:    domain.Seat{ShowroomID: s.showroom.ID, SeatTypeID: s.standard.ID, Row: 2, Number: 1},
			wantErr: domain.ErrCapacityExceeded,
		},
		{
			name:    "unknown showroom",
			seat:    domain.Seat{ShowroomID: s.showroom.ID + 100, SeatTypeID: s.standard.ID, Row: 1, Number: 1},
			wantErr: domain.ErrShowroomNotFound,
		},
		{
			name:    "unknown seat type",
			seat:    domain.Seat{ShowroomID: s.showroom.ID, SeatTypeID: s.premium.ID + 100, Row: 3, Number: 1},
			wantErr: domain.ErrSeatTypeNotFound,
		},
		{
			name:    "row below one",
			seat:    domain.Seat{ShowroomID: s.showroom.ID, SeatTypeID: s.standard.ID, Row: 0, Number: 1},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			seat := tt.seat
			err := s.svc.Catalog.AddSeat(s.ctx, &seat)
			s.ErrorIs(err, tt.wantErr)
		})
	}
}

func (s *ServiceSuite) TestSeatLayout() {
	hall := s.createShowroom("Hall 4", 4)
	s.addSeat(hall.ID, s.standard.ID, 2, 2)
	s.addSeat(hall.ID, s.premium.ID, 1, 2)
	s.addSeat(hall.ID, s.standard.ID, 2, 1)
	s.addSeat(hall.ID, s.standard.ID, 1, 1)

	showroom, rows, err := s.svc.Catalog.SeatLayout(s.ctx, hall.ID)
	s.Require().NoError(err)
	s.Equal(hall.ID, showroom.ID)
	s.Require().Len(rows, 2)

	for i, row := range rows {
		s.Equal(i+1, row.Row)
		s.Require().Len(row.Seats, 2)
		s.Equal(1, row.Seats[0].Number)
		s.Equal(2, row.Seats[1].Number)
	}
	s.Equal(s.premium.ID, rows[0].Seats[1].SeatTypeID)

	_, _, err = s.svc.Catalog.SeatLayout(s.ctx, hall.ID+100)
	s.ErrorIs(err, domain.ErrShowroomNotFound)
}

func (s *ServiceSuite) TestDuplicateNames() {
	err := s.svc.Catalog.CreateShowroom(s.ctx, &domain.Showroom{Name: "hall 1", Capacity: 10})
	s.ErrorIs(err, domain.ErrDuplicateName)

	err = s.svc.Catalog.CreateSeatType(s.ctx, &domain.SeatType{Name: "PREMIUM", Premium: s.premium.Premium})
	s.ErrorIs(err, domain.ErrDuplicateName)
}

func (s *ServiceSuite) TestMovieLifecycle() {
	movie, err := s.svc.Catalog.GetMovie(s.ctx, s.movie.ID)
	s.Require().NoError(err)

	movie.Synopsis = "A single continuous shot."
	s.Require().NoError(s.svc.Catalog.UpdateMovie(s.ctx, movie))
	s.Equal(2, movie.Version)

	stale := *movie
	stale.Version = 1
	s.ErrorIs(s.svc.Catalog.UpdateMovie(s.ctx, &stale), domain.ErrEditConflict)

	invalid := *movie
	invalid.Runtime = 0
	s.ErrorIs(s.svc.Catalog.UpdateMovie(s.ctx, &invalid), domain.ErrValidation)

	s.schedule(s.start, 1000)
	s.ErrorIs(s.svc.Catalog.DeleteMovie(s.ctx, s.movie.ID), domain.ErrMovieInUse)

	unused := &domain.Movie{Title: "Unused", Runtime: time.Hour, ReleaseDate: s.movie.ReleaseDate}
	s.Require().NoError(s.svc.Catalog.CreateMovie(s.ctx, unused))
	s.Require().NoError(s.svc.Catalog.DeleteMovie(s.ctx, unused.ID))

	_, err = s.svc.Catalog.GetMovie(s.ctx, unused.ID)
	s.ErrorIs(err, domain.ErrMovieNotFound)
}

func (s *ServiceSuite) TestListMovies() {
	second := &domain.Movie{Title: "Another Story", Runtime: time.Hour, ReleaseDate: s.movie.ReleaseDate}
	s.Require().NoError(s.svc.Catalog.CreateMovie(s.ctx, second))

	movies, metadata, err := s.svc.Catalog.ListMovies(s.ctx, domain.MovieFilters{
		Pagination: domain.Pagination{Page: 1, PageSize: 10, Term: "story", Sort: "id"},
	})
	s.Require().NoError(err)
	s.Require().Len(movies, 1)
	s.Equal(second.ID, movies[0].ID)
	s.Equal(1, metadata.TotalRecords)
}
