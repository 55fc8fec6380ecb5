package bot

import (
	"sync"
	"time"

	tele "gopkg.in/telebot.v3"
	"go.uber.org/zap"

	"ecostep_backend/internal/config"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/service"
	"ecostep_backend/pkg/logger"
)

// reportDraft 等待确认的报告附件
type reportDraft struct {
	ChallengeID    string
	FileID         string
	Caption        *string
	AttachmentType string
	AttachmentName *string
}

// session 单个用户的对话状态。进程内存，重启即失。
type session struct {
	ReportChallengeID string       // 已选待提交的任务
	Draft             *reportDraft // 已收到附件，等待确认
	AwaitingFriend    bool         // 等待输入好友 username
}

// sessions 互斥锁保护的会话表
type sessions struct {
	mu sync.Mutex
	m  map[int64]*session
}

func newSessions() *sessions {
	return &sessions{m: make(map[int64]*session)}
}

func (s *sessions) update(userID int64, fn func(*session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[userID]
	if !ok {
		sess = &session{}
		s.m[userID] = sess
	}
	fn(sess)
}

// reset 菜单切换时清空对话状态
func (s *sessions) reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}

// snapshot 取当前状态的副本，避免在处理期间持锁
func (s *sessions) snapshot(userID int64) session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.m[userID]; ok {
		return *sess
	}
	return session{}
}

// Bot EcoStep Telegram 机器人
type Bot struct {
	Tele *tele.Bot
	cfg  *config.Config

	userRepo      *repository.UserRepository
	challengeRepo *repository.ChallengeRepository
	catalog       *service.CatalogService
	challenges    *service.ChallengeService
	progress      *service.ProgressService
	friends       *service.FriendshipService

	state *sessions
}

func New(
	cfg *config.Config,
	userRepo *repository.UserRepository,
	challengeRepo *repository.ChallengeRepository,
	catalog *service.CatalogService,
	challenges *service.ChallengeService,
	progress *service.ProgressService,
	friends *service.FriendshipService,
) (*Bot, error) {
	pollTimeout := time.Duration(cfg.Bot.PollTimeout) * time.Second

	teleBot, err := tele.NewBot(tele.Settings{
		Token:     cfg.Bot.Token,
		Poller:    &tele.LongPoller{Timeout: pollTimeout},
		ParseMode: tele.ModeHTML,
		OnError: func(err error, c tele.Context) {
			logger.Log.Error("处理更新出错", zap.Error(err))
		},
	})
	if err != nil {
		return nil, err
	}

	b := &Bot{
		Tele:          teleBot,
		cfg:           cfg,
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
		catalog:       catalog,
		challenges:    challenges,
		progress:      progress,
		friends:       friends,
		state:         newSessions(),
	}
	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerHandlers() {
	b.Tele.Handle("/start", b.onStart)
	b.Tele.Handle("/admin", b.onAdminPanel)

	b.Tele.Handle(btnTasks, b.onTasks)
	b.Tele.Handle(btnReport, b.onReportMenu)
	b.Tele.Handle(btnProgress, b.onProgress)
	b.Tele.Handle(btnFriends, b.onFriends)
	b.Tele.Handle(btnHelp, b.onHelp)
	b.Tele.Handle(btnMainMenu, b.onMainMenu)

	b.Tele.Handle(tele.OnCallback, b.onCallback)
	b.Tele.Handle(tele.OnPhoto, b.onPhoto)
	b.Tele.Handle(tele.OnDocument, b.onDocument)
	b.Tele.Handle(tele.OnText, b.onText)
}

// Start 启动长轮询，阻塞直到 Stop
func (b *Bot) Start() {
	b.setupCommands()
	logger.Log.Info("机器人启动", zap.String("mode", "long polling"))
	b.Tele.Start()
}

func (b *Bot) Stop() {
	b.Tele.Stop()
}

// setupCommands 普通用户只看到 /start，管理员额外看到 /admin
func (b *Bot) setupCommands() {
	common := []tele.Command{
		{Text: "start", Description: "Запустить бота"},
	}
	if err := b.Tele.SetCommands(common); err != nil {
		logger.Log.Warn("设置命令失败", zap.Error(err))
	}

	adminIDs := b.cfg.Admin.AdminIDSet()
	if len(adminIDs) == 0 {
		return
	}
	adminCommands := append(common, tele.Command{
		Text:        "admin",
		Description: "Открыть админ-панель",
	})
	for adminID := range adminIDs {
		scope := tele.CommandScope{Type: tele.CommandScopeChat, ChatID: adminID}
		if err := b.Tele.SetCommands(adminCommands, scope); err != nil {
			logger.Log.Warn("设置管理员命令失败",
				zap.Int64("admin_id", adminID),
				zap.Error(err))
		}
	}
}
