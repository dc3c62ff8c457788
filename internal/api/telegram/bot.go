package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "shot-coach/internal/application"
	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
	"shot-coach/internal/infrastructure/storage"
	"shot-coach/pkg/logger"
)

const (
	msgStart = `👋 Привет! Я разбираю технику ударов в бадминтоне по коротким видео.

📋 Команды:
/classify — определить тип удара
/feedback <удар> — разобрать технику (например, /feedback serve)
/serve, /smash — то же для подачи и смэша
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Выберите режим: /classify или /feedback <удар>
2️⃣ Отправьте видео удара (до %d МБ)
3️⃣ Получите тип удара или замечания по технике

💡 Рекомендации:
• В кадре должен быть один игрок целиком
• Снимайте сбоку, камера неподвижна
• Ролик — только сам удар, несколько секунд

Удары с правилами: %s`

	msgAwaitClassify  = "📹 Отправьте видео удара, я определю его тип."
	msgAwaitFeedback  = "📹 Отправьте видео удара «%s», я разберу технику."
	msgNeedShot       = "❓ Укажите удар: /feedback <удар>. Доступны: %s"
	msgUnknownShot    = "❓ Для удара «%s» нет правил. Доступны: %s"
	msgCancelled      = "❌ Операция отменена."
	msgChooseMode     = "📋 Сначала выберите режим: /classify или /feedback <удар>."
	msgSendVideo      = "📹 Пожалуйста, отправьте видео удара."
	msgBusy           = "⏳ Предыдущее видео ещё обрабатывается."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing     = "⏳ Обрабатываю видео..."
	msgTooLarge       = "⚠️ Видео слишком большое, максимум %d МБ."
	msgUndecodable    = "⚠️ Не удалось прочитать видео. Попробуйте другой файл."
	msgProcessingErr  = "⚠️ Не удалось обработать видео. Попробуйте ещё раз позже."
	msgShotType       = "🏸 Тип удара: %s"
	msgUnknownLabel   = "🤷 Не удалось определить тип удара."
)

// Analyzer строит покадровый отчёт о технике.
type Analyzer interface {
	Analyze(ctx context.Context, path, shotType string) (*entity.VideoReport, error)
}

// Classifier определяет тип удара по видео.
type Classifier interface {
	Classify(ctx context.Context, path string) (string, error)
}

// Config — зависимости бота
type Config struct {
	Token          string
	Users          *app.UserService
	Analyzer       Analyzer
	Classifier     Classifier
	Store          port.VideoStore
	Shots          []string // удары, для которых есть правила
	MaxUploadBytes int64
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// Bot представляет Telegram-бота
type Bot struct {
	api    *tgbotapi.BotAPI
	cfg    Config
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(cfg Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	log := logger.WithComponent(cfg.Logger, "telegram")
	log.Info("authorized on account",
		zap.String("account", api.Self.UserName),
		zap.String("token", logger.SanitizeToken(cfg.Token)),
	)

	return &Bot{api: api, cfg: cfg, logger: log}, nil
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
	user, err := b.cfg.Users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("error getting user", zap.Error(err))
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка видео
	if file, ok := videoFile(msg); ok {
		b.handleVideo(ctx, msg, user, file)
		return
	}

	// Текстовое сообщение (не команда)
	if user.State == entity.StateAwaitingVideo {
		b.sendMessage(msg.Chat.ID, msgSendVideo)
		return
	}
	b.sendMessage(msg.Chat.ID, msgChooseMode)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	shots := strings.Join(b.cfg.Shots, ", ")

	switch msg.Command() {
	case "start":
		if _, err := b.cfg.Users.Cancel(ctx, user.ID, user.ChatID); err != nil && !errors.Is(err, app.ErrBusy) {
			b.logger.Error("error saving user", zap.Error(err))
		}
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgHelp, b.cfg.MaxUploadBytes>>20, shots))

	case "classify":
		if _, err := b.cfg.Users.BeginClassify(ctx, user.ID, user.ChatID); err != nil {
			b.replyUserError(msg.Chat.ID, err)
			return
		}
		b.sendMessage(msg.Chat.ID, msgAwaitClassify)

	case "feedback", "serve", "smash":
		shot := parseShot(msg.Command(), msg.CommandArguments())
		if shot == "" {
			b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgNeedShot, shots))
			return
		}
		if !contains(b.cfg.Shots, shot) {
			b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgUnknownShot, shot, shots))
			return
		}
		if _, err := b.cfg.Users.BeginFeedback(ctx, user.ID, user.ChatID, shot); err != nil {
			b.replyUserError(msg.Chat.ID, err)
			return
		}
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgAwaitFeedback, shot))

	case "cancel":
		if _, err := b.cfg.Users.Cancel(ctx, user.ID, user.ChatID); err != nil {
			b.replyUserError(msg.Chat.ID, err)
			return
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleVideo принимает видео и запускает обработку в отдельной горутине
func (b *Bot) handleVideo(ctx context.Context, msg *tgbotapi.Message, user *entity.User, file incomingFile) {
	switch user.State {
	case entity.StateProcessing:
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	case entity.StateAwaitingVideo:
	default:
		b.sendMessage(msg.Chat.ID, msgChooseMode)
		return
	}

	// Размер известен заранее: большие файлы не скачиваем вовсе.
	if int64(file.size) > b.cfg.MaxUploadBytes {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgTooLarge, b.cfg.MaxUploadBytes>>20))
		return
	}

	pending := user.Pending
	if _, err := b.cfg.Users.SetState(ctx, user.ID, user.ChatID, entity.StateProcessing); err != nil {
		b.logger.Error("error saving user", zap.Error(err))
		return
	}
	b.sendMessage(msg.Chat.ID, msgProcessing)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		// Пользователь возвращается в главное меню на любом исходе.
		defer func() {
			if _, err := b.cfg.Users.Finish(context.Background(), user.ID, user.ChatID); err != nil {
				b.logger.Error("error saving user", zap.Error(err))
			}
		}()

		reply := b.process(ctx, file.id, pending)
		b.sendMessage(msg.Chat.ID, reply)
	}()
}

// process скачивает видео, прогоняет нужный конвейер и возвращает текст ответа
func (b *Bot) process(ctx context.Context, fileID string, pending entity.PendingRequest) string {
	ctx, cancel := context.WithTimeout(ctx, b.requestTimeout())
	defer cancel()

	video, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Warn("error downloading video", zap.Error(err))
		if errors.Is(err, storage.ErrTooLarge) {
			return fmt.Sprintf(msgTooLarge, b.cfg.MaxUploadBytes>>20)
		}
		return msgProcessingErr
	}
	defer func() {
		if err := video.Remove(); err != nil {
			b.logger.Warn("failed to remove temp video", zap.Error(err))
		}
	}()

	switch pending.Kind {
	case entity.RequestClassify:
		label, err := b.cfg.Classifier.Classify(ctx, video.Path)
		if err != nil {
			return b.failureReply(err)
		}
		return formatLabel(label)

	default:
		report, err := b.cfg.Analyzer.Analyze(ctx, video.Path, pending.ShotType)
		if err != nil {
			return b.failureReply(err)
		}
		return formatReport(report)
	}
}

// replyUserError: пока идёт обработка, новые команды отклоняются
func (b *Bot) replyUserError(chatID int64, err error) {
	if errors.Is(err, app.ErrBusy) {
		b.sendMessage(chatID, msgBusy)
		return
	}
	b.logger.Error("error saving user", zap.Error(err))
}

func (b *Bot) failureReply(err error) string {
	b.logger.Warn("video pipeline failed", zap.Error(err))
	if errors.Is(err, app.ErrDecode) {
		return msgUndecodable
	}
	return msgProcessingErr
}

func (b *Bot) requestTimeout() time.Duration {
	if b.cfg.RequestTimeout <= 0 {
		return 2 * time.Minute
	}
	return b.cfg.RequestTimeout
}

// downloadFile скачивает файл из Telegram во временное хранилище
func (b *Bot) downloadFile(ctx context.Context, fileID string) (*port.StoredVideo, error) {
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

	video, err := b.cfg.Store.Save(ctx, resp.Body, b.cfg.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}
	return video, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("error sending message", zap.Error(err))
	}
}
