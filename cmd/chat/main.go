package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/skillplanner-backend/internal/data/db"
	"github.com/yungbote/skillplanner-backend/internal/data/repos"
	"github.com/yungbote/skillplanner-backend/internal/planner"
	"github.com/yungbote/skillplanner-backend/internal/platform/envutil"
	"github.com/yungbote/skillplanner-backend/internal/platform/gcal"
	"github.com/yungbote/skillplanner-backend/internal/platform/gemini"
	"github.com/yungbote/skillplanner-backend/internal/platform/logger"
	"github.com/yungbote/skillplanner-backend/internal/services"
	"github.com/yungbote/skillplanner-backend/internal/types"
)

// chatLoop holds the terminal session state: the running history and
// the most recent plan waiting for an 'integrate' command.
type chatLoop struct {
	model     gemini.Client
	planner   services.PlannerService
	history   []types.ChatMessage
	lastPlan  *types.Plan
	lastTasks []types.Task
}

func main() {
	log, err := logger.New(envutil.Str("LOG_MODE", "prod"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	model, err := gemini.NewFromEnv(ctx, log)
	if err != nil {
		fmt.Printf("Could not init Gemini client: %v\n", err)
		os.Exit(1)
	}
	defer model.Close()

	calendarService, err := gcal.NewFromEnv(ctx, log)
	if err != nil {
		fmt.Printf("Warning: Google Calendar unavailable, 'integrate' will not work: %v\n", err)
	}

	var planRunRepo repos.PlanRunRepo
	if dbService, err := db.New(log); err == nil {
		if err := dbService.AutoMigrateAll(); err == nil {
			planRunRepo = repos.NewPlanRunRepo(dbService.DB(), log)
		}
	}

	var inserter gcal.Inserter
	if calendarService != nil {
		inserter = calendarService
	}
	timeZone := envutil.Str("DEFAULT_TIMEZONE", "Asia/Dhaka")
	plannerService := services.NewPlannerService(model, inserter, planRunRepo, log, timeZone)

	now := time.Now()
	loop := &chatLoop{
		model:   model,
		planner: plannerService,
		history: []types.ChatMessage{
			types.UserMessage(planner.ChatLoopInstruction(now)),
			types.ModelMessage("Understood. I can chat, generate structured learning plans, and refine them."),
		},
	}
	loop.run(ctx)
}

func (l *chatLoop) run(ctx context.Context) {
	fmt.Println("Skill Learning Planner CLI is active.")
	fmt.Println("Type 'exit' to quit. If a plan is generated, type 'integrate' to add to Google Calendar.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			fmt.Println("Exiting planner. Goodbye!")
			return
		}

		if planner.IsIntegrateCommand(input) {
			l.integrate(ctx)
			continue
		}
		if l.clarifyAmbiguous(input) {
			continue
		}

		fmt.Println("AI is thinking...")
		reply, err := l.model.Chat(ctx, l.history, input)
		if err != nil {
			fmt.Printf("AI Error: %v\n", err)
			continue
		}
		reply = strings.TrimSpace(reply)
		l.history = append(l.history, types.UserMessage(input), types.ModelMessage(reply))

		if plan, ok := planner.ExtractPlan(reply); ok {
			l.storePlan(plan)
			fmt.Println(planner.FormatPlan(plan))
			fmt.Println("\nAI: If this plan looks good, you can say 'integrate' to add it to your calendar, or continue chatting to refine it or ask for something else.")
		} else {
			fmt.Printf("AI: %s\n", reply)
		}
	}
}

func (l *chatLoop) integrate(ctx context.Context) {
	if l.lastPlan == nil || len(l.lastTasks) == 0 {
		fmt.Println("\nAI: I don't have a plan ready to integrate. Please ask me to generate one first.")
		return
	}
	fmt.Println("\nAI: Okay, attempting to add the last generated plan to your Google Calendar...")
	res, err := l.planner.IntegratePlan(ctx, l.lastPlan.Skill, l.lastTasks, nil)
	if err != nil {
		fmt.Printf("AI: %v\n", err)
	} else {
		fmt.Printf("AI: %s\n", res.Message)
	}
	// One attempt per plan, success or not.
	l.lastPlan = nil
	l.lastTasks = nil
}

// clarifyAmbiguous intercepts bare topic mentions on early turns and
// asks whether the user wants a plan or general information.
func (l *chatLoop) clarifyAmbiguous(input string) bool {
	if len(l.history) > 4 {
		return false
	}
	if !planner.IsAmbiguous(input) || planner.IsExplicitGeneration(input) {
		return false
	}
	fmt.Printf("AI: %s\n", planner.ClarificationResponse)
	l.history = append(l.history,
		types.UserMessage(input),
		types.ModelMessage(planner.ClarificationResponse))
	return true
}

func (l *chatLoop) storePlan(plan *types.Plan) {
	start, _ := planner.CorrectStartDate(time.Now(), plan.StartDate)
	tasks, _ := planner.StructureTasks(plan, start)
	if len(tasks) == 0 {
		return
	}
	l.lastPlan = plan
	l.lastTasks = tasks
}
