package service

import (
	"fmt"

	tele "gopkg.in/telebot.v3"
	"go.uber.org/zap"

	"ecostep_backend/internal/model"
	"ecostep_backend/internal/repository"
	"ecostep_backend/pkg/logger"
	"ecostep_backend/pkg/monitoring"
)

// BotSender 推送消息的最小接口，*tele.Bot 满足该接口。
// 机器人未启动（如仅跑管理 API）时可为 nil，所有推送静默跳过。
type BotSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	FileByID(fileID string) (tele.File, error)
}

// NotificationService Telegram 推送：审核结果、好友动态、群发
type NotificationService struct {
	Bot        BotSender
	BotToken   string
	UserRepo   *repository.UserRepository
	FriendRepo *repository.FriendshipRepository
}

func NewNotificationService(bot BotSender, botToken string, userRepo *repository.UserRepository, friendRepo *repository.FriendshipRepository) *NotificationService {
	return &NotificationService{
		Bot:        bot,
		BotToken:   botToken,
		UserRepo:   userRepo,
		FriendRepo: friendRepo,
	}
}

// recipient tele.Recipient 的轻量实现，避免为发消息先查 users 表
type recipient int64

func (r recipient) Recipient() string {
	return fmt.Sprintf("%d", int64(r))
}

// DisplayName 推送文案里的用户称呼："Имя (@username)" 或退化为 Имя
func DisplayName(u *model.User) string {
	if u == nil {
		return "Пользователь"
	}
	name := u.FirstName
	if name == "" {
		name = fmt.Sprintf("Пользователь %d", u.UserID)
	}
	if u.Username != "" {
		return fmt.Sprintf("%s (@%s)", name, u.Username)
	}
	return name
}

// NotifyUser 单发，best-effort：失败只记日志不回传错误
func (s *NotificationService) NotifyUser(userID int64, text string) bool {
	if s.Bot == nil {
		return false
	}
	_, err := s.Bot.Send(recipient(userID), text, tele.ModeHTML)
	if err != nil {
		monitoring.BotMessageCounter.WithLabelValues("notify", "error").Inc()
		logger.Log.Warn("推送失败",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return false
	}
	monitoring.BotMessageCounter.WithLabelValues("notify", "ok").Inc()
	return true
}

// NotifyFriendsApproved 报告通过后通知好友
func (s *NotificationService) NotifyFriendsApproved(userID int64, challengeTitle string, points int) {
	if s.Bot == nil {
		return
	}
	friendIDs, err := s.FriendRepo.GetFriendIDsCached(userID)
	if err != nil {
		logger.Log.Warn("好友列表查询失败", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if len(friendIDs) == 0 {
		return
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		logger.Log.Warn("用户查询失败", zap.Int64("user_id", userID), zap.Error(err))
	}
	text := fmt.Sprintf("🌿 %s выполнил(а) задание «%s» и получил(а) %d баллов!",
		DisplayName(user), challengeTitle, points)

	for _, friendID := range friendIDs {
		s.NotifyUser(friendID, text)
	}
}

// BroadcastResult 群发统计
type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

// Broadcast 给所有注册用户群发。部分失败不中断，逐个计数。
func (s *NotificationService) Broadcast(message string) (*BroadcastResult, error) {
	ids, err := s.UserRepo.AllIDs()
	if err != nil {
		return nil, err
	}

	result := &BroadcastResult{Total: len(ids)}
	for _, id := range ids {
		if s.Bot == nil {
			result.Failed++
			continue
		}
		if _, err := s.Bot.Send(recipient(id), message, tele.ModeHTML); err != nil {
			monitoring.BotMessageCounter.WithLabelValues("broadcast", "error").Inc()
			result.Failed++
			continue
		}
		monitoring.BotMessageCounter.WithLabelValues("broadcast", "ok").Inc()
		result.Sent++
	}
	return result, nil
}

// FileURL 报告附件的直链。拿不到（文件过期、bot 未启动）返回空串。
func (s *NotificationService) FileURL(fileID string) string {
	if s.Bot == nil || fileID == "" {
		return ""
	}
	file, err := s.Bot.FileByID(fileID)
	if err != nil || file.FilePath == "" {
		logger.Log.Debug("附件链接获取失败", zap.String("file_id", fileID), zap.Error(err))
		return ""
	}
	return fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", s.BotToken, file.FilePath)
}
