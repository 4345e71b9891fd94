package mapper

import (
	"promptpix-be/internal/entity"
	"promptpix-be/internal/model"
)

type ImageMapper struct{}

func NewImageMapper() *ImageMapper {
	return &ImageMapper{}
}

func (m *ImageMapper) ToEntity(img *model.GeneratedImage) *entity.GeneratedImage {
	if img == nil {
		return nil
	}
	return &entity.GeneratedImage{
		Id:        img.Id,
		UserId:    img.UserId,
		SessionId: img.SessionId,
		Prompt:    img.Prompt,
		Model:     img.Model,
		MimeType:  img.MimeType,
		ImageURL:  img.ImageURL,
		CreatedAt: img.CreatedAt,
	}
}

func (m *ImageMapper) ToModel(img *entity.GeneratedImage) *model.GeneratedImage {
	if img == nil {
		return nil
	}
	return &model.GeneratedImage{
		Id:        img.Id,
		UserId:    img.UserId,
		SessionId: img.SessionId,
		Prompt:    img.Prompt,
		Model:     img.Model,
		MimeType:  img.MimeType,
		ImageURL:  img.ImageURL,
		CreatedAt: img.CreatedAt,
	}
}

func (m *ImageMapper) ToEntities(models []*model.GeneratedImage) []*entity.GeneratedImage {
	entities := make([]*entity.GeneratedImage, len(models))
	for i, img := range models {
		entities[i] = m.ToEntity(img)
	}
	return entities
}
