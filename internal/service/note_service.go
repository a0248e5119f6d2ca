package service

import (
	"context"
	"sdo_backend/internal/model"
	"sdo_backend/internal/repository"
)

// NoteRequest is an admin remark about a user.
// swagger:model NoteRequest
type NoteRequest struct {
	Text string `json:"text" binding:"required,notblank"`
}

type NoteService struct {
	NoteRepo *repository.NoteRepository
	UserRepo *repository.UserRepository
}

func NewNoteService(noteRepo *repository.NoteRepository, userRepo *repository.UserRepository) *NoteService {
	return &NoteService{NoteRepo: noteRepo, UserRepo: userRepo}
}

func (s *NoteService) Create(ctx context.Context, authorID, userID uint, req NoteRequest) (*model.Note, error) {
	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	note := &model.Note{AuthorID: authorID, UserID: userID, Text: req.Text}
	if err := s.NoteRepo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) List(ctx context.Context, userID uint) ([]model.Note, error) {
	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.NoteRepo.ListByUser(ctx, userID)
}

// Update rewrites the text of a note about userID.
func (s *NoteService) Update(ctx context.Context, userID, noteID uint, req NoteRequest) (*model.Note, error) {
	note, err := s.NoteRepo.Find(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	note.Text = req.Text
	if err := s.NoteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID uint) error {
	return s.NoteRepo.Delete(ctx, userID, noteID)
}
