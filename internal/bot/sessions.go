package bot

import "sync"

// Stage — этап диалога с пользователем
type Stage int

const (
	StageIdle Stage = iota
	StageAddTitle
	StageAddAmount
	StageAddDay
	StageEditTitle
	StageEditAmount
	StageEditDay
)

// Session накапливает данные многошагового ввода одного пользователя.
// Живёт только в памяти: рестарт процесса молча сбрасывает начатые диалоги.
type Session struct {
	UserID    int64 // внутренний ID пользователя
	Stage     Stage
	Title     string
	Amount    float64
	PaymentID int64 // платёж, редактируемый в edit-диалоге
}

// sessions хранит активные диалоги по внутреннему ID пользователя.
// Диалоги разных пользователей независимы, общая блокировка нужна
// только на доступ к самой таблице.
type sessions struct {
	mu     sync.RWMutex
	byUser map[int64]*Session
}

func newSessions() *sessions {
	return &sessions{
		byUser: make(map[int64]*Session),
	}
}

func (s *sessions) get(userID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byUser[userID]
	return session, ok
}

// start начинает новый диалог; уже идущий диалог пользователя
// перезаписывается вместе с частично введёнными данными
func (s *sessions) start(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[session.UserID] = session
}

func (s *sessions) clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
}
