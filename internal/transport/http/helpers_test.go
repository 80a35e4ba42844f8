package http

import (
	"time"

	"pdf-quiz-service/internal/app"
	"pdf-quiz-service/internal/domain"
	"pdf-quiz-service/internal/infra/memory"
)

func newTestService() *app.QuizService {
	store := memory.NewSessionStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(sampleBank()), time.Minute)
	return app.NewQuizService(store, banks, memory.NewReviewStore(), app.Options{})
}

func sampleBank() domain.Bank {
	return domain.Bank{
		ID: "default",
		Questions: []domain.Question{
			{ID: 1, Text: "What is 2 + 2?", Options: map[string]string{"a": "3", "b": "4", "c": "5"}, CorrectAnswers: []string{"b"}},
			{ID: 2, Text: "Pick the primes", Options: map[string]string{"a": "2", "b": "4", "c": "5"}, CorrectAnswers: []string{"a", "c"}},
		},
	}
}
