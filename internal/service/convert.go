package service

import (
	"github.com/mmynk/basket/internal/calculator"
	"github.com/mmynk/basket/internal/models"
	"github.com/mmynk/basket/pkg/api"
)

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func itemToAPI(item *models.Item) *api.Item {
	return &api.Item{
		ID:        item.ID,
		Name:      item.Name,
		Category:  string(item.Category),
		Completed: item.Completed,
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
	}
}

func friendToAPI(f *models.Friend) *api.Friend {
	return &api.Friend{
		ID:        f.ID,
		Username:  f.Username,
		AvatarURL: f.AvatarURL,
		Email:     f.Email,
		CreatedAt: f.CreatedAt,
	}
}

func summaryToAPI(s calculator.Summary) *api.Summary {
	out := &api.Summary{
		Count:      s.Count,
		Completed:  s.Completed,
		Total:      s.Total,
		Remaining:  s.Remaining,
		ByCategory: make([]*api.CategoryTotal, len(s.ByCategory)),
	}
	for i, c := range s.ByCategory {
		out.ByCategory[i] = &api.CategoryTotal{
			Category: string(c.Category),
			Count:    c.Count,
			Total:    c.Total,
		}
	}
	return out
}

func apiLogToAPI(l *models.APILog) *api.APILog {
	return &api.APILog{
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
