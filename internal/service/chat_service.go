// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"time"

	"promptpix-be/internal/dto"
	"promptpix-be/internal/entity"
	"promptpix-be/internal/repository/memory"
	"promptpix-be/internal/repository/specification"
	"promptpix-be/internal/repository/unitofwork"
	"promptpix-be/pkg/llm"

	"github.com/google/uuid"
)

const promptOptimizerInstruction = `You are a prompt engineer for an AI image generator.
The user describes the picture they want; you reply with a single refined,
detailed image-generation prompt. Keep the user's intent, add concrete visual
details (style, lighting, composition), and output only the prompt text.`

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	GetMessages(ctx context.Context, userId, sessionId uuid.UUID) ([]*dto.MessageResponse, error)
	SendMessage(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	llm        llm.Provider
	drafts     *memory.DraftRepository
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, provider llm.Provider, drafts *memory.DraftRepository) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		llm:        provider,
		drafts:     drafts,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	title := req.Title
	if title == "" {
		title = "New Session"
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	return toSessionResponse(session), nil
}

func (s *chatService) ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, toSessionResponse(session))
	}
	return res, nil
}

func (s *chatService) GetMessages(ctx context.Context, userId, sessionId uuid.UUID) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.Filter("session_id", sessionId),
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		res = append(res, toMessageResponse(msg))
	}
	return res, nil
}

// SendMessage stores the user's message, asks the optimizer for a refined
// image prompt, and stores the reply. The refined prompt also lands in the
// in-memory draft so the image endpoint can pick it up without a re-read.
func (s *chatService) SendMessage(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	userMsg := &entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: sessionId,
		UserId:    userId,
		Role:      entity.ChatRoleUser,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}

	refined, err := s.llm.Complete(ctx, promptOptimizerInstruction, req.Content)
	if err != nil {
		return nil, err
	}

	assistantMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		SessionId:     sessionId,
		UserId:        userId,
		Role:          entity.ChatRoleAssistant,
		Content:       refined,
		RefinedPrompt: &refined,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	revision := 1
	if draft, found := s.drafts.Get(sessionId.String()); found {
		revision = draft.Revision + 1
	}
	s.drafts.Save(&memory.Draft{
		SessionID: sessionId.String(),
		UserID:    userId.String(),
		Prompt:    refined,
		Revision:  revision,
	})

	session.UpdatedAt = time.Now()
	if session.Title == "New Session" {
		session.Title = truncateTitle(req.Content)
	}
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return &dto.SendMessageResponse{
		UserMessage:      *toMessageResponse(userMsg),
		AssistantMessage: *toMessageResponse(assistantMsg),
	}, nil
}

func (s *chatService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.UserId != userId {
		return nil, ErrForbidden
	}
	return session, nil
}

func toSessionResponse(session *entity.ChatSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:        session.Id,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func toMessageResponse(msg *entity.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:            msg.Id,
		SessionId:     msg.SessionId,
		Role:          string(msg.Role),
		Content:       msg.Content,
		RefinedPrompt: msg.RefinedPrompt,
		CreatedAt:     msg.CreatedAt,
	}
}

func truncateTitle(content string) string {
	const maxTitle = 60
	if len(content) <= maxTitle {
		return content
	}
	return content[:maxTitle] + "..."
}
