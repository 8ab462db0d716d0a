// Package main runs the chat widget in a terminal against a gateway.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/shodh-memory/widget-gateway/internal/model"
	"github.com/shodh-memory/widget-gateway/internal/widget"
	"github.com/shodh-memory/widget-gateway/pkg/logger"
)

var (
	apiURL   = flag.String("api", "http://localhost:8080", "Gateway base URL")
	clientID = flag.String("client", "shodh-demo", "Widget client id")
	pagePath = flag.String("page", "/", "Page path reported with the session")
	name     = flag.String("name", "", "Lead name; prompts when empty")
	email    = flag.String("email", "", "Lead email")
	company  = flag.String("company", "", "Lead company")
	skip     = flag.Bool("skip", false, "Skip the lead form")
	noReveal = flag.Bool("no-reveal", false, "Print replies at once instead of typing them out")
)

func main() {
	flag.Parse()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	log, err := logger.NewConsole("warn")
	if err != nil {
		log = logger.NewNop()
	}
	defer log.Sync()

	transport := widget.NewHTTPTransport(*apiURL, widget.WithLogger(log))

	pacing := widget.DefaultPacing()
	if *noReveal {
		pacing = widget.Pacing{}
	}

	var (
		mu       sync.Mutex
		revealed string
	)
	onFrame := func(partial string) {
		mu.Lock()
		defer mu.Unlock()
		if revealed == "" {
			fmt.Print(boldCyan("Assistant: "))
		}
		fmt.Print(partial[len(revealed):])
		revealed = partial
	}
	onMessage := func(m model.Message) {
		if m.Role != model.RoleAssistant {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if revealed != "" && revealed == m.Content {
			fmt.Println()
		} else {
			fmt.Printf("%s%s\n", boldCyan("Assistant: "), m.Content)
		}
		fmt.Println()
		revealed = ""
	}

	c := widget.New(transport, widget.Options{
		ClientID:  *clientID,
		PagePath:  *pagePath,
		UserAgent: "widget-cli",
		Pacing:    pacing,
		OnMessage: onMessage,
		OnFrame:   onFrame,
	})

	// Page teardown: send the summary and give it a moment to leave.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Println()
		c.Unload()
		transport.Flush(5 * time.Second)
		os.Exit(0)
	}()

	fmt.Println(boldGreen("shodh-memory chat"))
	fmt.Printf("Gateway: %s  Client: %s\n", boldCyan(*apiURL), boldCyan(*clientID))
	fmt.Println(faint("Type your message and press Enter. Type 'exit' or press Ctrl+C to quit."))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	c.Open()

	if err := startChat(c, scanner, boldGreen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(input), "exit") {
			break
		}

		if err := c.Send(ctx, input); err != nil {
			fmt.Fprintln(os.Stderr, faint(err.Error()))
			continue
		}
		<-c.Settled()
	}

	c.Close()
	if !transport.Flush(5 * time.Second) {
		fmt.Fprintln(os.Stderr, "Session summary may not have been delivered")
	}
}

func startChat(c *widget.Controller, scanner *bufio.Scanner, prompt func(a ...interface{}) string) error {
	if *skip {
		return c.SkipLead()
	}

	lead := model.LeadInfo{Name: *name, Email: *email, Company: *company}
	if lead.Name == "" {
		lead.Name = ask(scanner, prompt("Name (blank to skip): "))
		if strings.TrimSpace(lead.Name) == "" {
			return c.SkipLead()
		}
	}
	for strings.TrimSpace(lead.Email) == "" {
		lead.Email = ask(scanner, prompt("Email: "))
	}
	if lead.Company == "" {
		lead.Company = ask(scanner, prompt("Company (optional): "))
	}

	return c.SubmitLead(lead)
}

func ask(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		os.Exit(0)
	}
	return scanner.Text()
}
