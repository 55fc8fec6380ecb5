package bot

import (
	"fmt"
	"net/url"
	"strings"

	tele "gopkg.in/telebot.v3"
	"go.uber.org/zap"

	"ecostep_backend/internal/model"
	"ecostep_backend/internal/service"
	"ecostep_backend/internal/util"
	"ecostep_backend/pkg/logger"
)

func (b *Bot) onStart(c tele.Context) error {
	sender := c.Sender()
	b.state.reset(sender.ID)

	firstName := sender.FirstName
	if firstName == "" {
		firstName = "Пользователь"
	}

	created, err := b.userRepo.Register(sender.ID, sender.Username, firstName)
	if err != nil {
		logger.Log.Error("注册用户失败", zap.Int64("user_id", sender.ID), zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	if created {
		logger.Log.Info("新用户注册", zap.Int64("user_id", sender.ID))
	}

	greeting := fmt.Sprintf(
		"🌿 Привет, %s!\n\n"+
			"Добро пожаловать в EcoStep — бот для формирования экологических привычек.\n\n"+
			"Выберите действие из меню ниже:",
		firstName,
	)
	if err := c.Send(greeting, mainMenu()); err != nil {
		return err
	}
	return b.sendAdminPanelPrompt(c)
}

// sendAdminPanelPrompt 管理员收到打开 mini app 的按钮，URL 必须是 https
func (b *Bot) sendAdminPanelPrompt(c tele.Context) error {
	if !b.cfg.Admin.IsAdmin(c.Sender().ID) || !b.cfg.Admin.HasPanel() {
		return nil
	}
	webAppURL := b.cfg.Admin.WebAppURL
	parsed, err := url.Parse(webAppURL)
	if err != nil || !strings.EqualFold(parsed.Scheme, "https") {
		return nil
	}
	return c.Send(
		"🛠 <b>Админ-панель</b>\nОткрой mini app, чтобы управлять ботом.",
		adminPanelKeyboard(webAppURL),
	)
}

func (b *Bot) onAdminPanel(c tele.Context) error {
	if !b.cfg.Admin.IsAdmin(c.Sender().ID) {
		return c.Send("Эта команда доступна только администраторам.")
	}
	if !b.cfg.Admin.HasPanel() {
		return c.Send("Админ-панель не настроена.")
	}
	return b.sendAdminPanelPrompt(c)
}

// onTasks 列出用户尚未接取的任务
func (b *Bot) onTasks(c tele.Context) error {
	userID := c.Sender().ID
	b.state.reset(userID)

	all, err := b.catalog.All()
	if err != nil {
		logger.Log.Error("任务目录加载失败", zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	statuses, err := b.challengeRepo.StatusMap(userID)
	if err != nil {
		logger.Log.Error("任务状态查询失败", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}

	available := all[:0:0]
	for _, ch := range all {
		if _, taken := statuses[ch.ID]; !taken {
			available = append(available, ch)
		}
	}
	if len(available) == 0 {
		return c.Send("Все задания уже приняты. Отправьте отчёты через «📮 Отчёт».", backMenu())
	}

	return c.Send("🌍 Выберите задание:", tasksKeyboard(available))
}

// onReportMenu 列出已接取任务供选择汇报
func (b *Bot) onReportMenu(c tele.Context) error {
	userID := c.Sender().ID
	b.state.reset(userID)

	accepted, err := b.challengeRepo.AcceptedIDs(userID)
	if err != nil {
		logger.Log.Error("已接取任务查询失败", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	if len(accepted) == 0 {
		return c.Send("У вас нет принятых заданий. Сначала выберите задание в «📋 Задания».", backMenu())
	}

	titles := b.catalog.Titles(accepted)
	return c.Send("📮 По какому заданию отчёт?", reportKeyboard(accepted, titles))
}

func (b *Bot) onProgress(c tele.Context) error {
	userID := c.Sender().ID
	b.state.reset(userID)

	summary, err := b.progress.Summary(userID)
	if err != nil {
		logger.Log.Error("进度汇总失败", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}

	var sb strings.Builder
	sb.WriteString("📈 <b>Ваш прогресс</b>\n\n")
	fmt.Fprintf(&sb, "Принято заданий: %d\n", summary.AcceptedCount)
	fmt.Fprintf(&sb, "Отчётов на проверке: %d\n", summary.PendingCount)
	for _, title := range summary.PendingTitles {
		fmt.Fprintf(&sb, "  • %s\n", title)
	}
	fmt.Fprintf(&sb, "Одобрено: %d, отклонено: %d\n\n", summary.ApprovedCount, summary.RejectedCount)
	fmt.Fprintf(&sb, "⭐ Баллы: %d (за неделю: %d)\n", summary.TotalPoints, summary.WeeklyPoints)
	fmt.Fprintf(&sb, "🌍 Сэкономлено CO₂: %.1f кг", summary.TotalCO2)

	return c.Send(sb.String(), backMenu())
}

// onFriends 排行榜 + 好友管理
func (b *Bot) onFriends(c tele.Context) error {
	userID := c.Sender().ID
	b.state.reset(userID)
	return b.sendFriendsBoard(c, userID)
}

func (b *Bot) sendFriendsBoard(c tele.Context, userID int64) error {
	board, err := b.friends.Leaderboard(userID)
	if err != nil {
		logger.Log.Error("排行榜加载失败", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	friendList, err := b.friends.Friends(userID)
	if err != nil {
		logger.Log.Error("好友列表加载失败", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	requests, err := b.friends.PendingRequests(userID)
	if err != nil {
		logger.Log.Error("好友申请加载失败", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}

	var sb strings.Builder
	sb.WriteString("👥 <b>Рейтинг друзей</b>\n\n")
	for i, entry := range board {
		name := entry.FirstName
		if name == "" {
			name = fmt.Sprintf("Пользователь %d", entry.UserID)
		}
		if entry.IsSelf {
			name += " (вы)"
		}
		fmt.Fprintf(&sb, "%d. %s — %d баллов, %.1f кг CO₂\n", i+1, name, entry.Points, entry.CO2)
	}
	if len(requests) > 0 {
		fmt.Fprintf(&sb, "\n📬 Заявки в друзья: %d", len(requests))
	}

	return c.Send(sb.String(), friendsKeyboard(friendList, requests))
}

func (b *Bot) onHelp(c tele.Context) error {
	b.state.reset(c.Sender().ID)
	help := "❓ <b>Как это работает</b>\n\n" +
		"1. Выберите задание в «📋 Задания» и примите его.\n" +
		"2. Выполните задание и отправьте фото или документ через «📮 Отчёт».\n" +
		"3. Администратор проверит отчёт — за одобренные задания начисляются баллы.\n" +
		"4. Следите за прогрессом в «📈 Прогресс» и соревнуйтесь с друзьями в «👥 Рейтинг друзей»."
	return c.Send(help, backMenu())
}

func (b *Bot) onMainMenu(c tele.Context) error {
	b.state.reset(c.Sender().ID)
	return c.Send("🏠 Главное меню", mainMenu())
}

// onText 自由文本只在等待好友 username 时有意义
func (b *Bot) onText(c tele.Context) error {
	userID := c.Sender().ID
	if !b.state.snapshot(userID).AwaitingFriend {
		return nil
	}
	b.state.update(userID, func(s *session) { s.AwaitingFriend = false })

	username := strings.TrimPrefix(strings.TrimSpace(c.Text()), "@")
	if username == "" {
		return c.Send("Введите username, например @eco_friend.")
	}

	result, err := b.friends.SendRequest(userID, username)
	if err != nil {
		return c.Send(friendRequestErrorText(err))
	}

	if result.AutoAccepted {
		b.notifyFriendAccepted(result.Target.UserID, c.Sender())
		return c.Send(fmt.Sprintf("🤝 Вы и %s хотели добавить друг друга — теперь вы друзья!", result.Target.FirstName), backMenu())
	}

	b.notifyFriendRequest(result.Request.ID, result.Target.UserID, c.Sender())
	return c.Send(fmt.Sprintf("📬 Заявка отправлена %s. Ждём ответа!", result.Target.FirstName), backMenu())
}

func friendRequestErrorText(err error) string {
	switch err {
	case util.ErrUserNotFound:
		return "Пользователь не найден. Он должен хотя бы раз запустить бота."
	case util.ErrSelfFriendRequest:
		return "Нельзя добавить в друзья самого себя."
	case util.ErrAlreadyFriends:
		return "Вы уже друзья."
	case util.ErrDuplicateRequest:
		return "Заявка уже отправлена, дождитесь ответа."
	default:
		return "Произошла ошибка, попробуйте позже."
	}
}

// notifyFriendRequest 给目标用户发送带按钮的申请通知，失败忽略
func (b *Bot) notifyFriendRequest(requestID uint, targetID int64, from *tele.User) {
	fromUser := &model.User{UserID: from.ID, Username: from.Username, FirstName: from.FirstName}
	text := fmt.Sprintf("📬 %s хочет добавить вас в друзья.", service.DisplayName(fromUser))
	if _, err := b.Tele.Send(&model.User{UserID: targetID}, text, requestKeyboard(requestID)); err != nil {
		logger.Log.Debug("好友申请通知失败", zap.Int64("target_id", targetID), zap.Error(err))
	}
}

func (b *Bot) notifyFriendAccepted(targetID int64, from *tele.User) {
	fromUser := &model.User{UserID: from.ID, Username: from.Username, FirstName: from.FirstName}
	text := fmt.Sprintf("🤝 %s теперь ваш друг!", service.DisplayName(fromUser))
	if _, err := b.Tele.Send(&model.User{UserID: targetID}, text); err != nil {
		logger.Log.Debug("好友通知失败", zap.Int64("target_id", targetID), zap.Error(err))
	}
}
