package request

import (
	"context"
	"errors"
)

// Request — заявка кандидата: выбранные позиции и ссылка на резюме.
// Одна заявка на email; после выставления оффера (Offered=true) кандидат
// её больше не редактирует.
type Request struct {
	Email     string
	Positions []string
	Resume    string
	Offered   bool
}

var ErrNotFound = errors.New("request not found")

// Repository — порт хранения заявок.
type Repository interface {
	Create(ctx context.Context, r Request) error
	Update(ctx context.Context, r Request) error
	Get(ctx context.Context, email string) (Request, error)
	ListNotOffered(ctx context.Context) ([]Request, error)
	SetOffered(ctx context.Context, email string) error
}
