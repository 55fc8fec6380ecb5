package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v3"

	"ecostep_backend/internal/model"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/service"
)

// 主菜单按钮文案，同时作为文本消息的路由键
const (
	btnTasks    = "📋 Задания"
	btnReport   = "📮 Отчёт"
	btnProgress = "📈 Прогресс"
	btnFriends  = "👥 Рейтинг друзей"
	btnHelp     = "❓ Помощь"
	btnMainMenu = "🏠 Главное меню"
)

func mainMenu() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true, Placeholder: "Выберите действие"}
	m.Reply(
		m.Row(m.Text(btnTasks), m.Text(btnReport)),
		m.Row(m.Text(btnProgress), m.Text(btnFriends)),
		m.Row(m.Text(btnHelp)),
	)
	return m
}

func backMenu() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true}
	m.Reply(m.Row(m.Text(btnMainMenu)))
	return m
}

// inlineBtn 原始回调按钮，data 为 prefix:id 形式
func inlineBtn(text, data string) tele.InlineButton {
	return tele.InlineButton{Text: text, Data: data}
}

// tasksKeyboard 可接取任务列表
func tasksKeyboard(challenges []service.Challenge) *tele.ReplyMarkup {
	rows := make([][]tele.InlineButton, 0, len(challenges))
	for _, ch := range challenges {
		label := fmt.Sprintf("%s (%s)", ch.Title, ch.PointsLabel())
		rows = append(rows, []tele.InlineButton{
			inlineBtn(label, cbChallengeSelect+ch.ID),
		})
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// challengeActions 任务详情卡下的接取/放弃按钮
func challengeActions(challengeID string, accepted bool) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	if accepted {
		rows = append(rows, []tele.InlineButton{
			inlineBtn("📮 Отправить отчёт", cbChallengeReport+challengeID),
			inlineBtn("❌ Отказаться", cbChallengeDecline+challengeID),
		})
	} else {
		rows = append(rows, []tele.InlineButton{
			inlineBtn("✅ Принять", cbChallengeAccept+challengeID),
		})
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// reportKeyboard 已接取任务列表，选择要汇报的那一个
func reportKeyboard(ids []string, titles map[string]string) *tele.ReplyMarkup {
	rows := make([][]tele.InlineButton, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []tele.InlineButton{
			inlineBtn(titles[id], cbChallengeReport+id),
		})
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// confirmKeyboard 报告确认卡
func confirmKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{
			inlineBtn("✅ Отправить", cbReportConfirm),
			inlineBtn("✏️ Изменить", cbReportEdit),
		},
	}}
}

// friendsKeyboard 排行榜下的好友管理按钮
func friendsKeyboard(friends []repository.FriendEntry, requests []model.FriendRequest) *tele.ReplyMarkup {
	rows := [][]tele.InlineButton{
		{inlineBtn("➕ Добавить друга", cbFriendsAdd)},
	}
	for _, f := range friends {
		label := fmt.Sprintf("🗑 Удалить %s", f.FirstName)
		rows = append(rows, []tele.InlineButton{
			inlineBtn(label, fmt.Sprintf("%s%d", cbFriendsRemove, f.UserID)),
		})
	}
	for _, req := range requests {
		rows = append(rows, []tele.InlineButton{
			inlineBtn("✅ Принять заявку", fmt.Sprintf("%s%d", cbFriendsAccept, req.ID)),
			inlineBtn("❌ Отклонить", fmt.Sprintf("%s%d", cbFriendsDecline, req.ID)),
		})
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// requestKeyboard 好友申请通知里的接受/拒绝按钮
func requestKeyboard(requestID uint) *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{
			inlineBtn("✅ Принять", fmt.Sprintf("%s%d", cbFriendsAccept, requestID)),
			inlineBtn("❌ Отклонить", fmt.Sprintf("%s%d", cbFriendsDecline, requestID)),
		},
	}}
}

// adminPanelKeyboard 打开 mini app 的 WebApp 按钮
func adminPanelKeyboard(webAppURL string) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	btn := m.WebApp("🛠 Открыть админ-панель", &tele.WebApp{URL: webAppURL})
	m.Inline(m.Row(btn))
	return m
}
