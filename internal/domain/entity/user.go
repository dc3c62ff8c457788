package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingVideo UserState = "awaiting_video" // Ожидание видео удара
	StateProcessing    UserState = "processing"     // Обработка видео
)

// RequestKind — что сделать с ожидаемым видео
type RequestKind string

const (
	RequestClassify RequestKind = "classify" // определить тип удара
	RequestFeedback RequestKind = "feedback" // разобрать технику
)

// PendingRequest — заказ на анализ следующего присланного видео.
type PendingRequest struct {
	Kind     RequestKind
	ShotType string // только для RequestFeedback
}

// User представляет пользователя бота
type User struct {
	ID      int64          // Telegram User ID
	ChatID  int64          // Telegram Chat ID
	State   UserState      // Текущее состояние пользователя
	Pending PendingRequest // Что ждём от пользователя
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
	if state == StateMainMenu {
		u.Pending = PendingRequest{}
	}
}

// Await переводит пользователя в ожидание видео под конкретный запрос.
func (u *User) Await(req PendingRequest) {
	req.ShotType = NormalizeShotType(req.ShotType)
	u.Pending = req
	u.State = StateAwaitingVideo
}
