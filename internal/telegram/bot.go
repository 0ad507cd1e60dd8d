package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smart-shopping-list/internal/config"
	"smart-shopping-list/internal/frequency"
	"smart-shopping-list/internal/list"
	"smart-shopping-list/internal/quantity"
	"smart-shopping-list/internal/share"
	"smart-shopping-list/internal/webimport"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the shopping list store.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	store    *list.Store
	ingestor *list.Ingestor
	importer *webimport.Importer
	freq     *frequency.Store
	signer   *share.Signer
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	store *list.Store,
	ingestor *list.Ingestor,
	importer *webimport.Importer,
	freq *frequency.Store,
	signer *share.Signer,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:      bot,
		cfg:      cfg,
		store:    store,
		ingestor: ingestor,
		importer: importer,
		freq:     freq,
		signer:   signer,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/shared", b.handleShared)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

// handleShared serves a read-only plain text export for signed share links.
func (b *Bot) handleShared(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	_, listID, err := b.signer.Verify(token)
	if err != nil {
		http.Error(w, "invalid or expired link", http.StatusForbidden)
		return
	}

	view, err := b.store.ViewOf(listID)
	if err != nil {
		http.Error(w, "list not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s\n\n", view.ListName)
	for _, line := range view.ExportLines() {
		fmt.Fprintf(w, "%s\n", line)
	}
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/") {
		b.handleCommand(msg, text)
		return
	}

	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleImportRequest(msg, text)
		return
	}

	b.handleAddRequest(msg, text)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message, text string) {
	cmd, arg := splitCommand(text)

	switch cmd {
	case "/start", "/help":
		b.reply(msg.Chat.ID, helpText)
	case "/list":
		b.sendView(msg.Chat.ID)
	case "/check":
		b.handleToggle(msg.Chat.ID, arg)
	case "/del":
		b.handleDelete(msg.Chat.ID, arg)
	case "/export":
		b.handleExport(msg.Chat.ID)
	case "/share":
		b.handleShare(msg.Chat.ID)
	case "/suggest":
		b.handleSuggest(msg.Chat.ID)
	case "/lists":
		b.handleLists(msg.Chat.ID)
	case "/newlist":
		b.handleNewList(msg.Chat.ID, arg)
	case "/use":
		b.handleUse(msg.Chat.ID, arg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Send /help for an overview.")
	}
}

const helpText = `🛒 *Shopping List Bot*

Send me items to add them, e.g. ` + "`2kg Kartoffeln, Milch, Brot`" + `
Send a recipe URL to import its ingredients.

/list - show the current list
/check n - check item number n off
/del n - delete item number n
/export - plain text export
/share - create a read-only share link
/suggest - your most frequent items
/lists - show all lists
/newlist name - create a list
/use name - switch lists`

// splitCommand separates "/check 3" into "/check" and "3". The bot
// username suffix ("/check@MyBot") is stripped.
func splitCommand(text string) (cmd, arg string) {
	cmd = text
	if i := strings.IndexAny(text, " \n"); i >= 0 {
		cmd, arg = text[:i], strings.TrimSpace(text[i+1:])
	}
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), arg
}

func (b *Bot) handleAddRequest(msg *tgbotapi.Message, text string) {
	statusText := "⏳ *Adding items...*"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	b.ingestor.Submit(ctx, b.store.SelectedID(), text)
	b.ingestor.Wait()

	b.editWithView(msg.Chat.ID, sentMsg.MessageID)
}

func (b *Bot) handleImportRequest(msg *tgbotapi.Message, url string) {
	statusText := "🔎 *Importing...* \n(Fetching the page and extracting items)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	items, err := b.importer.FetchItems(ctx, url)
	if err != nil {
		log.Printf("Error importing from %s: %v", url, err)
		b.editWithError(msg.Chat.ID, sentMsg.MessageID, err)
		return
	}

	b.ingestor.Submit(ctx, b.store.SelectedID(), strings.Join(items, "\n"))
	b.ingestor.Wait()

	b.editWithView(msg.Chat.ID, sentMsg.MessageID)
}

func (b *Bot) handleToggle(chatID int64, arg string) {
	item, err := b.resolveItem(arg)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	if err := b.store.ToggleItem(b.store.SelectedID(), item.ID); err != nil {
		b.reply(chatID, fmt.Sprintf("Could not check item: %v", err))
		return
	}
	b.sendView(chatID)
}

func (b *Bot) handleDelete(chatID int64, arg string) {
	item, err := b.resolveItem(arg)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	if err := b.store.DeleteItem(b.store.SelectedID(), item.ID); err != nil {
		b.reply(chatID, fmt.Sprintf("Could not delete item: %v", err))
		return
	}
	b.sendView(chatID)
}

// resolveItem maps a user-facing item number to the item it currently
// denotes in the rendered view.
func (b *Bot) resolveItem(arg string) (list.Item, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return list.Item{}, fmt.Errorf("please give an item number, e.g. /check 3")
	}
	view := b.store.View()
	item, ok := view.ItemByNumber(n)
	if !ok {
		return list.Item{}, fmt.Errorf("no item with number %d", n)
	}
	return item, nil
}

func (b *Bot) handleExport(chatID int64) {
	view := b.store.View()
	lines := view.ExportLines()
	if len(lines) == 0 {
		b.reply(chatID, "The list is empty.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, strings.Join(lines, "\n"))
	b.api.Send(msg)
}

func (b *Bot) handleShare(chatID int64) {
	listID := b.store.SelectedID()
	token, err := b.signer.Token(b.cfg.UserID, listID)
	if err != nil {
		log.Printf("Error creating share token: %v", err)
		b.reply(chatID, "Sharing is not configured on this server.")
		return
	}
	url := fmt.Sprintf("%s/shared?token=%s", strings.TrimRight(b.cfg.ShareBaseURL, "/"), token)
	b.reply(chatID, fmt.Sprintf("🔗 Read-only link (valid 24h):\n%s", url))
}

func (b *Bot) handleSuggest(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items, err := b.freq.Top(ctx, 10)
	if err != nil {
		log.Printf("Error fetching suggestions: %v", err)
		b.reply(chatID, "Could not load suggestions.")
		return
	}
	if len(items) == 0 {
		b.reply(chatID, "No suggestions yet. Check a few items off first.")
		return
	}

	var sb strings.Builder
	sb.WriteString("💡 *Frequently bought*\n\n")
	for _, label := range items {
		sb.WriteString(fmt.Sprintf("• %s\n", label))
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleLists(chatID int64) {
	infos := b.store.Lists()
	selected := b.store.SelectedID()

	var sb strings.Builder
	sb.WriteString("🗂 *Your lists*\n\n")
	for i, info := range infos {
		marker := " "
		if info.ID == selected {
			marker = "▸"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s (%d items)\n", marker, i+1, info.Name, info.Items))
	}
	sb.WriteString("\nSwitch with /use name or /use number.")
	b.reply(chatID, sb.String())
}

func (b *Bot) handleNewList(chatID int64, name string) {
	info := b.store.CreateList(name)
	b.reply(chatID, fmt.Sprintf("Created and switched to *%s*.", info.Name))
}

func (b *Bot) handleUse(chatID int64, arg string) {
	if arg == "" {
		b.reply(chatID, "Which list? /use name or /use number")
		return
	}

	infos := b.store.Lists()
	var target string
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(infos) {
		target = infos[n-1].ID
	} else {
		for _, info := range infos {
			if strings.EqualFold(info.Name, arg) {
				target = info.ID
				break
			}
		}
	}
	if target == "" {
		b.reply(chatID, fmt.Sprintf("No list named %q.", arg))
		return
	}

	if err := b.store.SelectList(target); err != nil {
		b.reply(chatID, fmt.Sprintf("Could not switch list: %v", err))
		return
	}
	b.sendView(chatID)
}

func (b *Bot) sendView(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, formatViewMarkdown(b.store.View()))
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) editWithView(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, formatViewMarkdown(b.store.View()))
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) editWithError(chatID int64, messageID int, err error) {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	finalText := fmt.Sprintf("❌ *Error:*\n```\n%v\n```", safeErr)
	edit := tgbotapi.NewEditMessageText(chatID, messageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

// formatViewMarkdown renders a list view once, numbering items the way
// /check and /del expect them.
func formatViewMarkdown(view list.View) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *%s*\n", view.ListName))

	n := 0
	empty := true
	for _, group := range view.Groups {
		sb.WriteString(fmt.Sprintf("\n_%s_\n", group.Category))
		for _, item := range group.Items {
			n++
			empty = false
			sb.WriteString(fmt.Sprintf("%d. %s\n", n, formatItemLine(item)))
		}
	}

	if len(view.Checked) > 0 {
		sb.WriteString("\n_done_\n")
		for _, item := range view.Checked {
			n++
			empty = false
			sb.WriteString(fmt.Sprintf("%d. ✅ %s\n", n, item.Text))
		}
	}

	if empty {
		sb.WriteString("\nThe list is empty. Send me something to buy!")
	}

	if view.SaveErr != nil {
		sb.WriteString("\n⚠️ _Changes could not be saved yet. They will be retried._")
	}

	return sb.String()
}

func formatItemLine(item list.Item) string {
	switch item.Status {
	case list.StatusAnalyzing:
		return fmt.Sprintf("⏳ %s", item.Text)
	case list.StatusError:
		return fmt.Sprintf("⚠️ %s", item.Text)
	default:
		q := quantity.Quantity{Amount: item.Quantity, Unit: item.Unit}
		return quantity.FormatForExport(q, item.Text)
	}
}
