package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"skin-vision/internal/container"
	"skin-vision/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я оцениваю состояние кожи лица по селфи.

📸 Отправьте фото лица анфас, и я посчитаю метрики кожи и дам рекомендации.

📋 Команды:
/analyze — начать анализ
/history — история и динамика
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте селфи анфас
2️⃣ Бот найдёт лицо и проанализирует зоны кожи
3️⃣ Вы получите оценку, метрики и фото с разметкой

💡 Рекомендации:
• Снимайте при дневном рассеянном свете
• Без макияжа и фильтров
• Лицо целиком в кадре, камера на уровне глаз

Результат не является медицинским диагнозом.

📋 Команды:
/analyze — начать анализ
/history — история и динамика
/cancel — отменить операцию`

	msgAwaitingSelfie  = "📸 Отправьте селфи анфас для анализа кожи."
	msgCancelled       = "❌ Операция отменена. Отправьте /analyze для нового анализа."
	msgSendPhoto       = "📸 Пожалуйста, отправьте селфи для анализа кожи."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую снимок..."
	msgBusy            = "⏳ Предыдущий снимок ещё обрабатывается, подождите."
	msgNoFace          = "🙈 Лицо на фото не найдено. Сделайте селфи анфас при хорошем освещении."
	msgBadPhoto        = "⚠️ Не удалось прочитать изображение. Попробуйте другое фото."
	msgNoHistory       = "🗂 История пуста. Отправьте /analyze, чтобы сделать первый анализ."
	msgNeedMoreHistory = "📈 Для динамики нужно минимум два анализа."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgOverlayCaption  = "🔍 Зоны анализа и найденные высыпания"
)

const downloadTimeout = 30 * time.Second

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
	http      *http.Client
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger = logger.Named("telegram")
	logger.Info("authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:       api,
		container: c,
		http:      &http.Client{Timeout: downloadTimeout},
		logger:    logger,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
// Перед возвратом дожидается уже начатых анализов.
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
			if update.Message == nil || update.Message.From == nil {
				continue
			}

			msg := update.Message
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleMessage(ctx, msg)
			}()
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.container.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("failed to get user", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	users := b.container.UserService

	switch msg.Command() {
	case "start":
		if _, err := users.Cancel(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			b.logger.Warn("failed to reset state", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		}
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "analyze":
		if _, err := users.BeginAnalysis(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			b.logger.Warn("failed to begin analysis", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingSelfie)

	case "history":
		b.handleHistory(ctx, msg)

	case "cancel":
		if _, err := users.Cancel(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			b.logger.Warn("failed to cancel", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto скачивает селфи, запускает анализ и отправляет отчёт
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if !user.CanAcceptPhoto() {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.logger.Error("failed to download photo", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	out, err := b.container.AnalysisService.AnalyzePhoto(ctx, msg.From.ID, msg.Chat.ID, imageData)
	if err != nil {
		b.logger.Warn("analysis failed",
			zap.Int64("user_id", msg.From.ID),
			zap.Int("bytes", len(imageData)),
			zap.Error(err),
		)
		b.sendMessage(msg.Chat.ID, userMessage(err))
		return
	}

	if len(out.Analysis.Overlay) > 0 {
		b.sendPhoto(msg.Chat.ID, out.Analysis.Overlay, msgOverlayCaption)
	}
	b.sendMessage(msg.Chat.ID, formatReport(out))
}

// handleHistory показывает сохранённые анализы и, если их достаточно, динамику
func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	analysis := b.container.AnalysisService

	records, err := analysis.History(ctx, msg.From.ID)
	if err != nil {
		b.logger.Error("failed to load history", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}
	b.sendMessage(msg.Chat.ID, formatHistory(records))
	if len(records) == 0 {
		return
	}

	cmp, err := analysis.Trend(ctx, msg.From.ID)
	if err != nil {
		b.sendMessage(msg.Chat.ID, userMessage(err))
		return
	}
	b.sendMessage(msg.Chat.ID, formatTrend(cmp))
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

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sendPhoto отправляет JPEG с подписью
func (b *Bot) sendPhoto(chatID int64, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "overlay.jpg", Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("failed to send photo", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
