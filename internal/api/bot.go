package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"face-assess-bot/internal/container"
	"face-assess-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для эстетической оценки лица по фотографии.

📸 Отправьте мне портретное фото, и я подготовлю отчёт: тепловую карту проблемных зон, оценку состояния кожи и приоритет процедур.

📋 Команды:
/assess — начать оценку
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото лица анфас
2️⃣ Модель оценит состояние кожи по зонам
3️⃣ Вы получите отчёт: текст, три диаграммы и документы HTML и PDF

💡 Рекомендации:
• Снимайте при ровном дневном освещении
• Лицо без макияжа, волосы убраны со лба
• Фото должно быть чётким

⚠️ Отчёт сформирован ИИ и не заменяет консультацию врача.

📋 Команды:
/assess — начать оценку
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото лица для оценки."
	msgCancelled       = "❌ Операция отменена. Отправьте /assess для новой оценки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото лица для оценки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую фото, это может занять до минуты..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается, дождитесь результата."
	msgBadPhoto        = "⚠️ Фото не подходит для оценки: %s\nПопробуйте сделать другое фото."
	msgProviderError   = "⚠️ Сервис анализа сейчас недоступен. Попробуйте позже."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgTooLarge        = "⚠️ Файл слишком большой. Отправьте фото меньшего размера."
	msgDone            = "✅ Оценка готова. Модель: %s, номер отчёта: %s"
)

// telegramTextLimit максимальная длина текстового сообщения в символах.
const telegramTextLimit = 4096

var captions = map[entity.ArtifactKind]string{
	entity.ArtifactHeatmap:  "🔥 Тепловая карта проблемных зон",
	entity.ArtifactRadar:    "📊 Оценка состояния кожи",
	entity.ArtifactPriority: "💉 Приоритет рекомендуемых процедур",
}

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	app      *container.Container
	maxBytes int
	wg       sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, app *container.Container, maxBytes int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:      api,
		app:      app,
		maxBytes: maxBytes,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.app.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото: сжатое фото или изображение, отправленное файлом
	if fileID, size, ok := photoFile(msg); ok {
		b.handlePhoto(ctx, msg, fileID, size)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var err error

	switch msg.Command() {
	case "start":
		_, err = b.app.UserService.SetState(ctx, user.ID, user.ChatID, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "assess":
		if user.IsBusy() {
			b.sendMessage(msg.Chat.ID, msgBusy)
			return
		}
		_, err = b.app.UserService.BeginAssessment(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		if user.IsBusy() {
			b.sendMessage(msg.Chat.ID, msgBusy)
			return
		}
		_, err = b.app.UserService.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}

	if err != nil {
		log.Printf("Error saving user state: %v", err)
	}
}

// handlePhoto принимает фото и запускает оценку в отдельной горутине
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, fileID string, size int) {
	if b.maxBytes > 0 && size > b.maxBytes {
		b.sendMessage(msg.Chat.ID, msgTooLarge)
		return
	}

	started, err := b.app.UserService.StartProcessing(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error updating user state: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}
	if !started {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if err := b.app.UserService.FinishProcessing(ctx, msg.From.ID, msg.Chat.ID); err != nil {
				log.Printf("Error updating user state: %v", err)
			}
		}()
		b.assess(ctx, msg.Chat.ID, fileID)
	}()
}

// assess скачивает фото, проводит оценку и отправляет результаты
func (b *Bot) assess(ctx context.Context, chatID int64, fileID string) {
	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	out, err := b.app.AssessmentService.Assess(ctx, imageData)
	if err != nil {
		log.Printf("Assessment failed: %v", err)
		b.sendMessage(chatID, errorMessage(err))
		return
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Printf("Error removing workspace: %v", err)
		}
	}()

	a := out.Assessment
	b.sendMessage(chatID, fmt.Sprintf(msgDone, a.Model, a.ReportNumber()))

	for _, art := range a.Artifacts.Available() {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(art.Path))
		photo.Caption = captions[art.Kind]
		if _, err := b.api.Send(photo); err != nil {
			log.Printf("Error sending %s: %v", art.Kind, err)
		}
	}

	for _, chunk := range splitMessage(a.ReportText, telegramTextLimit) {
		b.sendMessage(chatID, chunk)
	}

	for _, d := range out.Documents {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: d.Name, Bytes: d.Data})
		if _, err := b.api.Send(doc); err != nil {
			log.Printf("Error sending %s document: %v", d.Format, err)
		}
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if b.maxBytes > 0 {
		// +1 байт, чтобы декодер увидел превышение лимита
		body = io.LimitReader(resp.Body, int64(b.maxBytes)+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// photoFile выбирает файл с максимальным разрешением
func photoFile(msg *tgbotapi.Message) (string, int, bool) {
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		return photo.FileID, photo.FileSize, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, msg.Document.FileSize, true
	}
	return "", 0, false
}

// errorMessage подбирает текст ошибки для пользователя
func errorMessage(err error) string {
	var invalid *entity.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return fmt.Sprintf(msgBadPhoto, invalid.Reason)
	case entity.IsProviderFailure(err):
		return msgProviderError
	default:
		return msgProcessingError
	}
}

// splitMessage делит текст на части не длиннее limit символов, по возможности
// по границам строк.
func splitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		chunks  []string
		current []rune
	)
	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		if len(current)+len(runes) > limit {
			flush()
		}
		// Строка длиннее лимита режется на куски
		for len(runes) > limit {
			current = append(current, runes[:limit]...)
			flush()
			runes = runes[limit:]
		}
		current = append(current, runes...)
	}
	flush()
	return chunks
}
