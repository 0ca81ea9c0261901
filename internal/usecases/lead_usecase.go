package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/repository"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

type LeadUsecase struct {
	leads         repository.LeadRepo
	notifications *NotificationUsecase
	cache         interfaces.QueryCache
}

func NewLeadUsecase(leads repository.LeadRepo, notifications *NotificationUsecase, cache interfaces.QueryCache) *LeadUsecase {
	return &LeadUsecase{leads: leads, notifications: notifications, cache: cache}
}

func (uc *LeadUsecase) List(ctx context.Context, status, search string) ([]entities.Lead, error) {
	filter := entities.LeadFilter{Status: entities.LeadStatus(status), Search: search}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation("Invalid status")
	}
	leads, err := uc.leads.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(leads), nil
}

func (uc *LeadUsecase) Get(ctx context.Context, id string) (*entities.Lead, error) {
	return uc.leads.FindByID(ctx, id)
}

// Update applies a partial update and returns the stored lead.
func (uc *LeadUsecase) Update(ctx context.Context, id string, patch entities.LeadPatch) (*entities.Lead, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = sanitize(*patch.Name)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperrors.Validation("Invalid status")
		}
		fields["status"] = *patch.Status
	}
	if patch.Notes != nil {
		fields["notes"] = sanitize(*patch.Notes)
	}
	if len(fields) == 0 {
		return nil, apperrors.BadRequest("no fields to update")
	}

	if err := uc.leads.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, entities.TableLeads)
	return uc.leads.FindByID(ctx, id)
}

func (uc *LeadUsecase) Customer360(ctx context.Context) ([]entities.Customer360, error) {
	rows, err := uc.leads.Customer360(ctx)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(rows), nil
}

// TouchFromInbound records contact from phone. Unknown phones become new
// leads and raise a notification; known ones get last_contact_at bumped.
func (uc *LeadUsecase) TouchFromInbound(ctx context.Context, phone, name string, at time.Time) (*entities.Lead, bool, error) {
	return uc.touch(ctx, phone, name, at, true)
}

func (uc *LeadUsecase) touch(ctx context.Context, phone, name string, at time.Time, retry bool) (*entities.Lead, bool, error) {
	lead, err := uc.leads.FindByPhone(ctx, phone)
	if err == nil {
		fields := map[string]interface{}{"last_contact_at": at}
		if lead.Name == nil && name != "" {
			fields["name"] = sanitize(name)
		}
		if err := uc.leads.Update(ctx, lead.ID, fields); err != nil {
			return nil, false, err
		}
		lead.LastContactAt = &at
		invalidate(ctx, uc.cache, entities.TableLeads)
		return lead, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	lead = &entities.Lead{Phone: phone, Status: entities.LeadNew, LastContactAt: &at, CreatedAt: at}
	if name != "" {
		clean := sanitize(name)
		lead.Name = &clean
	}
	if err := uc.leads.Create(ctx, lead); err != nil {
		if retry && errors.Is(err, apperrors.ErrDuplicate) {
			// Another worker created it first.
			return uc.touch(ctx, phone, name, at, false)
		}
		return nil, false, err
	}
	invalidate(ctx, uc.cache, entities.TableLeads)
	uc.announce(ctx, lead)
	return lead, true, nil
}

func (uc *LeadUsecase) announce(ctx context.Context, lead *entities.Lead) {
	if uc.notifications == nil {
		return
	}
	who := lead.Phone
	if lead.Name != nil && *lead.Name != "" {
		who = *lead.Name + " (" + lead.Phone + ")"
	}
	title := "New lead"
	message := who + " started a conversation"
	kind := entities.NotificationLead
	link := "/leads/" + lead.ID
	n := &entities.Notification{Title: &title, Message: &message, Type: &kind, Link: &link}
	if err := uc.notifications.Create(ctx, n); err != nil {
		logger.FromContext(ctx).Warn("New lead notification failed", zap.String("lead_id", lead.ID), zap.Error(err))
	}
}
