package remote

import (
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/pkg/api"
)

func identityFromAPI(u *api.User) *models.Identity {
	if u == nil {
		return nil
	}
	return &models.Identity{
		ID:            u.ID,
		Username:      u.Username,
		AvatarURL:     u.AvatarURL,
		Email:         u.Email,
		Authenticated: true,
	}
}

func userFromAPI(u *api.User) models.User {
	return models.User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func itemFromAPI(item *api.Item, ownerID string) models.Item {
	return models.Item{
		ID:        item.ID,
		OwnerID:   ownerID,
		Name:      item.Name,
		Category:  models.Category(item.Category),
		Completed: item.Completed,
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
	}
}

func friendFromAPI(f *api.Friend) models.Friend {
	return models.Friend{
		ID:        f.ID,
		Username:  f.Username,
		AvatarURL: f.AvatarURL,
		Email:     f.Email,
		CreatedAt: f.CreatedAt,
	}
}

func apiLogFromAPI(l *api.APILog) models.APILog {
	return models.APILog{
		ID:         l.ID,
		Timestamp:  l.Timestamp,
		Endpoint:   l.Endpoint,
		Method:     l.Method,
		Request:    l.Request,
		Response:   l.Response,
		Status:     l.Status,
		DurationMs: l.DurationMs,
	}
}
