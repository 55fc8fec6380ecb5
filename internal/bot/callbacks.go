package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"
	"go.uber.org/zap"

	"ecostep_backend/internal/model"
	"ecostep_backend/internal/util"
	"ecostep_backend/pkg/logger"
	"ecostep_backend/pkg/monitoring"
)

// 回调数据前缀，线上格式 prefix:id
const (
	cbChallengeSelect  = "challenge_select:"
	cbChallengeAccept  = "challenge_accept:"
	cbChallengeDecline = "challenge_decline:"
	cbChallengeReport  = "challenge_report:"
	cbReportConfirm    = "report_confirm"
	cbReportEdit       = "report_edit"
	cbFriendsAdd       = "friends:add"
	cbFriendsRemove    = "friends:remove:"
	cbFriendsAccept    = "friends:accept:"
	cbFriendsDecline   = "friends:decline:"
)

// callbackKind 回调命令类型，在边界处一次性解码
type callbackKind int

const (
	cmdUnknown callbackKind = iota
	cmdChallengeSelect
	cmdChallengeAccept
	cmdChallengeDecline
	cmdChallengeReport
	cmdReportConfirm
	cmdReportEdit
	cmdFriendsAdd
	cmdFriendsRemove
	cmdFriendsAccept
	cmdFriendsDecline
)

type callbackCmd struct {
	Kind callbackKind
	Arg  string
}

func parseCallback(data string) callbackCmd {
	data = strings.TrimSpace(data)
	switch {
	case data == cbReportConfirm:
		return callbackCmd{Kind: cmdReportConfirm}
	case data == cbReportEdit:
		return callbackCmd{Kind: cmdReportEdit}
	case data == cbFriendsAdd:
		return callbackCmd{Kind: cmdFriendsAdd}
	case strings.HasPrefix(data, cbChallengeSelect):
		return callbackCmd{Kind: cmdChallengeSelect, Arg: data[len(cbChallengeSelect):]}
	case strings.HasPrefix(data, cbChallengeAccept):
		return callbackCmd{Kind: cmdChallengeAccept, Arg: data[len(cbChallengeAccept):]}
	case strings.HasPrefix(data, cbChallengeDecline):
		return callbackCmd{Kind: cmdChallengeDecline, Arg: data[len(cbChallengeDecline):]}
	case strings.HasPrefix(data, cbChallengeReport):
		return callbackCmd{Kind: cmdChallengeReport, Arg: data[len(cbChallengeReport):]}
	case strings.HasPrefix(data, cbFriendsRemove):
		return callbackCmd{Kind: cmdFriendsRemove, Arg: data[len(cbFriendsRemove):]}
	case strings.HasPrefix(data, cbFriendsAccept):
		return callbackCmd{Kind: cmdFriendsAccept, Arg: data[len(cbFriendsAccept):]}
	case strings.HasPrefix(data, cbFriendsDecline):
		return callbackCmd{Kind: cmdFriendsDecline, Arg: data[len(cbFriendsDecline):]}
	}
	return callbackCmd{Kind: cmdUnknown, Arg: data}
}

func (b *Bot) onCallback(c tele.Context) error {
	// 先摘掉按钮上的转圈
	defer func() { _ = c.Respond() }()

	cmd := parseCallback(c.Callback().Data)
	monitoring.BotMessageCounter.WithLabelValues("callback", "ok").Inc()

	switch cmd.Kind {
	case cmdChallengeSelect:
		return b.onChallengeSelect(c, cmd.Arg)
	case cmdChallengeAccept:
		return b.onChallengeAccept(c, cmd.Arg)
	case cmdChallengeDecline:
		return b.onChallengeDecline(c, cmd.Arg)
	case cmdChallengeReport:
		return b.onChallengeReportSelect(c, cmd.Arg)
	case cmdReportConfirm:
		return b.onReportConfirm(c)
	case cmdReportEdit:
		return b.onReportEdit(c)
	case cmdFriendsAdd:
		return b.onFriendsAdd(c)
	case cmdFriendsRemove:
		return b.onFriendsRemove(c, cmd.Arg)
	case cmdFriendsAccept:
		return b.onFriendRequestDecision(c, cmd.Arg, true)
	case cmdFriendsDecline:
		return b.onFriendRequestDecision(c, cmd.Arg, false)
	}

	logger.Log.Debug("未知回调", zap.String("data", cmd.Arg))
	return nil
}

// onChallengeSelect 任务详情卡
func (b *Bot) onChallengeSelect(c tele.Context, challengeID string) error {
	challenge, err := b.catalog.Get(challengeID)
	if err != nil {
		logger.Log.Error("任务查询失败", zap.String("challenge_id", challengeID), zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	if challenge == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Задание больше недоступно."})
	}

	status, err := b.challengeRepo.Get(c.Sender().ID, challengeID)
	if err != nil {
		logger.Log.Error("任务状态查询失败", zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}

	text := fmt.Sprintf(
		"🌿 <b>%s</b>\n\n%s\n\n⭐ %s\n🌍 Экономия: %s",
		challenge.Title, challenge.Description, challenge.PointsLabel(), challenge.CO2,
	)
	accepted := status != nil
	return c.Send(text, challengeActions(challengeID, accepted))
}

func (b *Bot) onChallengeAccept(c tele.Context, challengeID string) error {
	challenge, err := b.challenges.Accept(c.Sender().ID, challengeID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrChallengeNotFound):
			return c.Respond(&tele.CallbackResponse{Text: "Задание больше недоступно."})
		case errors.Is(err, util.ErrChallengeSubmitted):
			return c.Respond(&tele.CallbackResponse{Text: "Отчёт уже на проверке, дождитесь решения."})
		default:
			logger.Log.Error("接取任务失败", zap.Error(err))
			return c.Send("Произошла ошибка, попробуйте позже.")
		}
	}

	text := fmt.Sprintf(
		"✅ Задание «%s» принято!\n\nКогда выполните — отправьте отчёт через «📮 Отчёт».",
		challenge.Title,
	)
	return c.Send(text, backMenu())
}

func (b *Bot) onChallengeDecline(c tele.Context, challengeID string) error {
	declined, err := b.challenges.Decline(c.Sender().ID, challengeID)
	if err != nil {
		logger.Log.Error("放弃任务失败", zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	if !declined {
		return c.Respond(&tele.CallbackResponse{Text: "Отказаться можно только от принятого задания."})
	}
	return c.Send("Задание снято. Вы можете выбрать другое в «📋 Задания».", backMenu())
}

// onChallengeReportSelect 记住所选任务，等待下一条照片/文件
func (b *Bot) onChallengeReportSelect(c tele.Context, challengeID string) error {
	userID := c.Sender().ID

	status, err := b.challengeRepo.Get(userID, challengeID)
	if err != nil {
		logger.Log.Error("任务状态查询失败", zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	if status == nil || !status.StatusIs(model.ChallengeStatusAccepted) {
		return c.Respond(&tele.CallbackResponse{Text: "Сначала примите задание."})
	}

	b.state.update(userID, func(s *session) {
		s.ReportChallengeID = challengeID
		s.Draft = nil
	})

	titles := b.catalog.Titles([]string{challengeID})
	text := fmt.Sprintf(
		"📮 Отчёт по заданию «%s».\n\nПришлите фото или документ, можно с подписью.",
		titles[challengeID],
	)
	return c.Send(text, backMenu())
}

func (b *Bot) onFriendsAdd(c tele.Context) error {
	b.state.update(c.Sender().ID, func(s *session) { s.AwaitingFriend = true })
	return c.Send("Введите username друга, например @eco_friend.", backMenu())
}

func (b *Bot) onFriendsRemove(c tele.Context, arg string) error {
	friendID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Некорректный запрос."})
	}

	removed, err := b.friends.RemoveFriend(c.Sender().ID, friendID)
	if err != nil {
		logger.Log.Error("删除好友失败", zap.Error(err))
		return c.Send("Произошла ошибка, попробуйте позже.")
	}
	if !removed {
		return c.Respond(&tele.CallbackResponse{Text: "Вы уже не друзья."})
	}
	if err := c.Respond(&tele.CallbackResponse{Text: "Удалено."}); err != nil {
		return err
	}
	return b.sendFriendsBoard(c, c.Sender().ID)
}

func (b *Bot) onFriendRequestDecision(c tele.Context, arg string, accept bool) error {
	requestID, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Некорректный запрос."})
	}

	req, err := b.friends.HandleRequest(uint(requestID), c.Sender().ID, accept)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRequestNotFound):
			return c.Respond(&tele.CallbackResponse{Text: "Заявка не найдена."})
		case errors.Is(err, util.ErrWrongRequestTarget):
			return c.Respond(&tele.CallbackResponse{Text: "Эта заявка адресована не вам."})
		case errors.Is(err, util.ErrRequestAlreadyHandled):
			return c.Respond(&tele.CallbackResponse{Text: "Заявка уже обработана."})
		default:
			logger.Log.Error("处理好友申请失败", zap.Error(err))
			return c.Send("Произошла ошибка, попробуйте позже.")
		}
	}

	if accept {
		b.notifyFriendAccepted(req.RequesterID, c.Sender())
		return c.Send("🤝 Заявка принята — теперь вы друзья!", backMenu())
	}
	return c.Send("Заявка отклонена.", backMenu())
}
