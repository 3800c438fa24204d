// SPDX-License-Identifier: AGPL-3.0-only
package helpers

import (
	"fmt"

	"github.com/fluffyriot/postdeck/internal/posts"
)

type ButtonText struct {
	New        string `json:"new"`
	Edit       string `json:"edit"`
	Delete     string `json:"delete"`
	Schedule   string `json:"schedule"`
	Reschedule string `json:"reschedule"`
}

type PlatformConfig struct {
	ID              posts.Platform `json:"id"`
	Label           string         `json:"label"`
	Description     string         `json:"description"`
	Href            string         `json:"href"`
	PageDescription string         `json:"pageDescription"`
	PlaceholderText string         `json:"placeholderText"`
	ButtonText      ButtonText     `json:"buttonText"`
	Color           string         `json:"color"`
	ChartFill       string         `json:"chartFill"`
}

var postButtons = ButtonText{
	New:        "Novo Post",
	Edit:       "Editar",
	Delete:     "Deletar",
	Schedule:   "Agendar",
	Reschedule: "Reagendar",
}

var AvailablePlatforms = []PlatformConfig{
	{
		ID:              posts.Instagram,
		Label:           "Instagram",
		Description:     "Crie, agende e analise seus posts do Instagram com facilidade.",
		Href:            "/instagram",
		PageDescription: "Gerencie e agende seus posts de Instagram",
		PlaceholderText: "Buscar posts...",
		ButtonText:      postButtons,
		Color:           "#ff0076",
		ChartFill:       "hsl(328, 100%, 54%)",
	},
	{
		ID:              posts.Facebook,
		Label:           "Facebook",
		Description:     "Organize e gerencie seus posts do Facebook de forma centralizada.",
		Href:            "/facebook",
		PageDescription: "Gerencie e agende seus posts do Facebook",
		PlaceholderText: "Buscar posts...",
		ButtonText:      postButtons,
		Color:           "#1877f2",
		ChartFill:       "hsl(221, 83%, 53%)",
	},
	{
		ID:              posts.TikTok,
		Label:           "TikTok",
		Description:     "Crie, agende e controle seu conteúdo do TikTok em um único painel.",
		Href:            "/tiktok",
		PageDescription: "Gerencie e agende seus vídeos do TikTok",
		PlaceholderText: "Buscar vídeos...",
		ButtonText: ButtonText{
			New:        "Novo Vídeo",
			Edit:       "Editar",
			Delete:     "Deletar",
			Schedule:   "Agendar",
			Reschedule: "Reagendar",
		},
		Color:     "#fe2c55",
		ChartFill: "hsl(212, 100%, 50%)",
	},
	{
		ID:              posts.LinkedIn,
		Label:           "LinkedIn",
		Description:     "Compartilhe conteúdo profissional e expanda sua rede de negócios.",
		Href:            "/linkedin",
		PageDescription: "Gerencie e agende seus posts do LinkedIn",
		PlaceholderText: "Buscar posts...",
		ButtonText:      postButtons,
		Color:           "#0a66c2",
		ChartFill:       "hsl(0, 100%, 50%)",
	},
}

func GetPlatformConfig(platform posts.Platform) (PlatformConfig, error) {
	for _, cfg := range AvailablePlatforms {
		if cfg.ID == platform {
			return cfg, nil
		}
	}
	return PlatformConfig{}, fmt.Errorf("platform %v not recognized", platform)
}

// PlatformLabel falls back to the raw identifier for unknown platforms.
func PlatformLabel(platform posts.Platform) string {
	cfg, err := GetPlatformConfig(platform)
	if err != nil {
		return string(platform)
	}
	return cfg.Label
}
