package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("неверный путь запроса: %s", r.URL.Path)
		}

		var payload struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("не удалось распарсить запрос: %v", err)
		}
		if len(payload.Messages) != 2 {
			t.Errorf("ожидалось 2 сообщения, получено %d", len(payload.Messages))
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "Привет! Чем помочь?"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")

	reply, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "Ты фитнес тренер."},
		{Role: "user", Content: "Привет"},
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if reply != "Привет! Чем помочь?" {
		t.Errorf("неверный ответ: %q", reply)
	}
}

func TestClientCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "overloaded"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")

	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("ожидалась ошибка при 500 ответе")
	}
}

func TestClientCompleteEmptyBaseURL(t *testing.T) {
	client := NewClient("", "test-model")

	if _, err := client.Complete(context.Background(), nil); err == nil {
		t.Fatal("ожидалась ошибка при пустом baseURL")
	}
}

func TestClientTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("неверный путь запроса: %s", r.URL.Path)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("не удалось распарсить multipart форму: %v", err)
		}
		if r.FormValue("model") == "" {
			t.Error("поле model не передано")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("поле file не передано: %v", err)
		}
		defer file.Close()
		if header.Filename != "voice.mp3" {
			t.Errorf("неверное имя файла: %s", header.Filename)
		}

		_ = json.NewEncoder(w).Encode(map[string]string{"text": "тренировка завершена"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")

	text, err := client.Transcribe(context.Background(), "voice.mp3", strings.NewReader("fake audio bytes"))
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if text != "тренировка завершена" {
		t.Errorf("неверная расшифровка: %q", text)
	}
}

func TestClientTranscribeEmptyBaseURL(t *testing.T) {
	client := NewClient("", "test-model")

	if _, err := client.Transcribe(context.Background(), "voice.mp3", strings.NewReader("x")); err == nil {
		t.Fatal("ожидалась ошибка при пустом baseURL")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "markdown блок",
			in:   "Вот план:\n```json\n{\"name\": \"план\"}\n```",
			want: `{"name": "план"}`,
			ok:   true,
		},
		{
			name: "голый объект",
			in:   `прелюдия {"a": 1} постскриптум`,
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "нет JSON",
			in:   "просто текст",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSON(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok = %v, ожидалось %v", ok, tc.ok)
			}
			if tc.ok && got != tc.want {
				t.Errorf("получено %q, ожидалось %q", got, tc.want)
			}
		})
	}
}
