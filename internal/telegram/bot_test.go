package telegram

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bobkonczak/health-tracking-pro/internal/config"
	"github.com/bobkonczak/health-tracking-pro/internal/database"
	"github.com/bobkonczak/health-tracking-pro/internal/health"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/services"
)

const (
	testChatID = 100
	testToday  = "2024-10-10"
)

type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

// texts returns the text of every plain or edited message sent so far.
func (f *fakeAPI) texts() []string {
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Telegram:  config.TelegramConfig{Token: "test", ChatID: testChatID, UserAID: 1, UserBID: 2},
		Challenge: config.ChallengeConfig{Start: "2024-09-15", Weeks: 12, StaleAfterDays: 1},
		Users:     config.UsersConfig{AName: "Bob", BName: "Paula"},
		WeekStart: time.Monday,
	}
	api := &fakeAPI{}
	bot := newBot(api, "HealthBot", cfg, services.NewServiceManager(db, cfg))
	bot.today = func() string { return testToday }
	return bot, api
}

func command(from int64, text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: from},
		Chat:     &tgbotapi.Chat{ID: testChatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func callback(from int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: from},
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: testChatID}},
		Data:    data,
	}}
}

func TestUnknownSenderIsRefused(t *testing.T) {
	bot, api := newTestBot(t)
	bot.handleUpdate(context.Background(), command(99, "/today"))

	texts := api.texts()
	if len(texts) != 1 || texts[0] != "⛔ Access denied" {
		t.Errorf("sent %q", texts)
	}
}

func TestForeignChatIsIgnored(t *testing.T) {
	bot, api := newTestBot(t)
	update := command(1, "/today")
	update.Message.Chat.ID = 555
	bot.handleUpdate(context.Background(), update)

	if len(api.sent) != 0 {
		t.Errorf("sent %d messages to a foreign chat", len(api.sent))
	}
}

func TestUnknownCommand(t *testing.T) {
	bot, api := newTestBot(t)
	bot.handleUpdate(context.Background(), command(1, "/dance"))

	if texts := api.texts(); len(texts) != 1 || !strings.Contains(texts[0], "Unknown command") {
		t.Errorf("sent %q", texts)
	}
}

func TestCheckTogglesFlag(t *testing.T) {
	ctx := context.Background()
	bot, api := newTestBot(t)
	bot.handleUpdate(ctx, command(2, "/check@HealthBot sauna"))

	day, err := bot.services.Checklist.GetDay(ctx, models.UserB, testToday)
	if err != nil {
		t.Fatal(err)
	}
	if !day.Checklist.Sauna || day.DailyPoints != 1 {
		t.Errorf("entry = %+v", day)
	}

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("sent %T, want MessageConfig", api.sent[0])
	}
	if !strings.Contains(msg.Text, "Paula") {
		t.Errorf("checklist text = %q", msg.Text)
	}
	if _, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); !ok {
		t.Errorf("reply markup = %T, want inline keyboard", msg.ReplyMarkup)
	}
}

func TestCallbackTogglesOwnChecklist(t *testing.T) {
	ctx := context.Background()
	bot, api := newTestBot(t)
	bot.handleUpdate(ctx, callback(1, toggleCallback(models.UserA, models.FlagTraining, testToday)))

	day, err := bot.services.Checklist.GetDay(ctx, models.UserA, testToday)
	if err != nil {
		t.Fatal(err)
	}
	if !day.Checklist.Training {
		t.Error("training flag not set")
	}

	if len(api.sent) != 1 {
		t.Fatalf("sent %d messages, want the keyboard refresh", len(api.sent))
	}
	if _, ok := api.sent[0].(tgbotapi.EditMessageTextConfig); !ok {
		t.Errorf("sent %T, want EditMessageTextConfig", api.sent[0])
	}
	answer, ok := api.requests[0].(tgbotapi.CallbackConfig)
	if !ok || !strings.Contains(answer.Text, "Training") {
		t.Errorf("callback answer = %+v", api.requests[0])
	}
}

func TestCallbackOnOtherUsersChecklist(t *testing.T) {
	ctx := context.Background()
	bot, api := newTestBot(t)
	bot.handleUpdate(ctx, callback(2, toggleCallback(models.UserA, models.FlagTraining, testToday)))

	for _, u := range []models.User{models.UserA, models.UserB} {
		day, err := bot.services.Checklist.GetDay(ctx, u, testToday)
		if err != nil {
			t.Fatal(err)
		}
		if day.Checklist.Training {
			t.Errorf("user %s toggled", u)
		}
	}
	answer := api.requests[0].(tgbotapi.CallbackConfig)
	if answer.Text != "⛔ Not your checklist" {
		t.Errorf("answer = %q", answer.Text)
	}
}

func TestWeightAndSyncMerge(t *testing.T) {
	ctx := context.Background()
	bot, api := newTestBot(t)
	bot.handleUpdate(ctx, command(1, "/weight 81,4"))
	bot.handleUpdate(ctx, command(1, "/sync steps=12000 fat=19.5"))

	snap, err := bot.services.Health.Snapshot(ctx, models.UserA, testToday)
	if err != nil {
		t.Fatal(err)
	}
	if v := snap.Metrics[health.Weight].Value; v == nil || *v != 81.4 {
		t.Errorf("weight = %v, want 81.4 kept after sync", v)
	}
	if v := snap.Metrics[health.Steps].Value; v == nil || *v != 12000 {
		t.Errorf("steps = %v", v)
	}
	if snap.DataSource != telegramSource {
		t.Errorf("source = %q", snap.DataSource)
	}

	texts := api.texts()
	if len(texts) != 2 || !strings.Contains(texts[0], "81.4 kg") || !strings.Contains(texts[1], "steps=12000") {
		t.Errorf("replies = %q", texts)
	}
}

func TestInvalidInputReplies(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/fasting 7pm", "❌"},
		{"/fasting", "Format: /fasting"},
		{"/weight heavy", "Format: /weight"},
		{"/history 90", "between 1 and 31"},
		{"/check yoga", "Unknown flag"},
		{"/sync mood=9", "unknown metric"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			bot, api := newTestBot(t)
			bot.handleUpdate(context.Background(), command(1, tt.text))

			texts := api.texts()
			if len(texts) != 1 || !strings.Contains(texts[0], tt.want) {
				t.Errorf("replies = %q, want one containing %q", texts, tt.want)
			}
		})
	}
}

func TestHistoryAndWeek(t *testing.T) {
	ctx := context.Background()
	bot, api := newTestBot(t)
	for _, date := range []string{"2024-10-08", "2024-10-09"} {
		if _, err := bot.services.Checklist.SubmitDay(ctx, models.UserA, date, models.Checklist{Training: true}, ""); err != nil {
			t.Fatal(err)
		}
	}

	bot.handleUpdate(ctx, command(1, "/history 3"))
	bot.handleUpdate(ctx, command(2, "/week"))

	texts := api.texts()
	if len(texts) != 2 {
		t.Fatalf("replies = %q", texts)
	}
	if !strings.Contains(texts[0], "2024-10-09: 2 pts") || !strings.Contains(texts[0], "Total: <b>4</b>") {
		t.Errorf("history = %q", texts[0])
	}
	if !strings.Contains(texts[1], "Bob leads by 4") {
		t.Errorf("week = %q", texts[1])
	}
}
