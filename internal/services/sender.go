package services

import (
	"context"
	"errors"

	"github.com/diewo77/invoice-builder/internal/logger"
	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/diewo77/invoice-builder/internal/store"
	"github.com/google/uuid"
)

type SenderService struct {
	senders SenderStore
	log     *logger.Logger
}

func NewSenderService(senders SenderStore, log *logger.Logger) *SenderService {
	if log == nil {
		log = logger.Nop()
	}
	return &SenderService{senders: senders, log: log}
}

func (s *SenderService) Create(ctx context.Context, p models.SenderProfile) (*models.Sender, error) {
	snd := models.NewSender(p)
	if err := s.senders.CreateSender(ctx, snd); err != nil {
		return nil, err
	}
	s.log.Info("sender created", "sender_id", snd.ID)
	return snd, nil
}

func (s *SenderService) Get(ctx context.Context, id uuid.UUID) (*models.Sender, error) {
	snd, err := s.senders.GetSender(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, senderNotFound(id)
		}
		return nil, err
	}
	return snd, nil
}

func (s *SenderService) List(ctx context.Context, p Page) (*List[models.Sender], error) {
	items, err := s.senders.ListSenders(ctx, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	total, err := s.senders.CountSenders(ctx)
	if err != nil {
		return nil, err
	}
	return &List[models.Sender]{Items: items, Offset: p.Offset, Limit: p.Limit, Total: total}, nil
}

func (s *SenderService) Update(ctx context.Context, id uuid.UUID, p models.SenderProfile) (*models.Sender, error) {
	snd, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	snd.Update(p)
	if err := s.senders.UpdateSender(ctx, snd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, senderNotFound(id)
		}
		return nil, err
	}
	return snd, nil
}

// Delete refuses to remove a sender that invoices still reference.
func (s *SenderService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.senders.SenderExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return senderNotFound(id)
	}
	inUse, err := s.senders.SenderInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return senderInUse(id)
	}
	if err := s.senders.DeleteSender(ctx, id); err != nil {
		switch {
		case errors.Is(err, store.ErrReferenced):
			return senderInUse(id)
		case errors.Is(err, store.ErrNotFound):
			return senderNotFound(id)
		}
		return err
	}
	s.log.Info("sender deleted", "sender_id", id)
	return nil
}

func senderNotFound(id uuid.UUID) *Error {
	return NotFound(CodeSenders, "Sender with id '%s' was not found", id)
}

func senderInUse(id uuid.UUID) *Error {
	return Conflict(CodeSendersInUse, "Sender with id '%s' is referenced by invoices", id)
}
