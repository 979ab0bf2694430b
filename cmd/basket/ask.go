package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/basket/internal/chat"
	"github.com/mmynk/basket/internal/style"
)

var askCmd = &cobra.Command{
	Use:     "ask [question]",
	GroupID: GroupList,
	Short:   "Ask the nutrition assistant",
	Long: `Ask the nutrition assistant about food and your grocery list.

With a question, prints one answer. Without one, starts a conversation
that reads questions from stdin until EOF or "exit".

When the server has no chat upstream, or it fails, answers come from a
built-in table of nutrition facts and your list.`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if _, err := env.requireSession(cmd.Context()); err != nil {
		return err
	}
	assistant := chat.NewAssistant(env.completer, env.app.Items, chat.WithTimeout(env.timeout))
	conv := chat.NewConversation(assistant)
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		reply, err := conv.Send(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printReply(out, reply)
		return nil
	}

	return converse(cmd, conv, os.Stdin, out)
}

func converse(cmd *cobra.Command, conv *chat.Conversation, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, style.Dim.Render(`Ask about calories, protein, or "what's on my list". Type exit to leave.`))
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, style.ArrowPrefix+" ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "exit" || text == "quit" {
			return nil
		}
		if text == "" {
			continue
		}
		reply, err := conv.Send(cmd.Context(), text)
		if err != nil {
			return err
		}
		printReply(out, reply)
	}
}

func printReply(w io.Writer, reply chat.Reply) {
	if reply.Fallback {
		fmt.Fprintln(w, style.Fallback.Render(reply.Content))
		return
	}
	fmt.Fprintln(w, style.Assistant.Render(reply.Content))
}
