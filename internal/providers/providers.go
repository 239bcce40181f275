package providers

import (
	"context"
	"errors"
	"fmt"
)

// DefaultPrompt asks for a single objective sentence about what the inspection photo shows.
const DefaultPrompt = "Analise a imagem. Ela faz parte de uma vistoria de apartamento. " +
	"Sua missão é descrever o que a imagem tá mostrando, focando nos principais detalhes e comentando problemas visíveis. " +
	"Seja sucinto e direto na descrição. Descrevendo o móvel ou parte da casa que está na imagem. " +
	"Seja objetivo e direto na descrição. Uma única frase. " +
	"Não comece com 'A imagem mostra' ou 'A imagem contém'. Apenas a frase."

// DefaultMaxTokens bounds the length of a description.
const DefaultMaxTokens = 300

// ErrMalformedResponse is returned when a provider answers 2xx without the expected content.
var ErrMalformedResponse = errors.New("response does not contain the expected structure")

// Config represents the configuration for a vision request
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	MaxTokens   int
}

// Image is the photo sent along with the prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// Provider defines the interface for an image description provider
type Provider interface {
	Name() string
	DescribeImage(ctx context.Context, config Config, image Image) (string, error)
}

// StatusError reports a non-2xx answer from the provider API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received non-2xx status code: %d - %s", e.Code, e.Body)
}
