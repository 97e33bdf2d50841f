// Package repl implements the interactive command loop on top of the
// analytics aggregator.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gradebook/internal/analytics"
	"gradebook/internal/telemetry"
	"gradebook/lib/textutil"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("gradebook/internal/repl")
	meter  = otel.Meter("gradebook/internal/repl")
)

const (
	report_command = "command"
	report_start   = "start"
)

const (
	CommandPrompt    = `Enter Your Command or type "help": `
	CoursePrompt     = "enter your course ID: "
	GroupPrompt      = "Enter a Group Name: "
	AssignmentPrompt = "Enter an Assignment ID: "

	NoCourses   = "No courses available"
	NoGraded    = "no graded submissions"
	NoWeighted  = "no weighted points"
	DefaultCode = "CISC1"
)

// suggestThreshold is the lowest Jaro-Winkler similarity at which a group
// name is offered as a correction.
const suggestThreshold = 0.8

type handler func(ctx context.Context, d *Dispatcher, session Session) (int64, error)

type command struct {
	name        string
	description string
	run         handler
}

type Options struct {
	// DefaultCode picks the starting course by code substring, defaults to
	// DefaultCode.
	DefaultCode string
}

type Dispatcher struct {
	agg         analytics.Aggregator
	in          Input
	out         io.Writer
	tel         telemetry.API
	defaultCode string
	commands    []command
	executed    metric.Int64Counter
}

func NewDispatcher(agg analytics.Aggregator, in Input, out io.Writer, tel telemetry.API, opts Options) *Dispatcher {
	if opts.DefaultCode == "" {
		opts.DefaultCode = DefaultCode
	}
	d := &Dispatcher{
		agg:         agg,
		in:          in,
		out:         out,
		tel:         telemetry.NewScopedAPI("repl", tel),
		defaultCode: opts.DefaultCode,
		commands:    commandTable(),
	}

	counter, err := meter.Int64Counter(
		"repl.commands",
		metric.WithDescription("Commands executed in the REPL."),
	)
	if err != nil {
		d.tel.ReportWarning(report_start, fmt.Errorf("create command counter: %w", err))
	} else {
		d.executed = counter
	}
	return d
}

func (d *Dispatcher) lookup(name string) (command, bool) {
	for _, c := range d.commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// Execute runs one command against the session and returns the course id
// the session should continue with, 0 when it should end. Unknown commands
// change nothing.
func (d *Dispatcher) Execute(ctx context.Context, session Session, name string) (int64, error) {
	name = strings.TrimSpace(name)
	cmd, ok := d.lookup(name)
	if !ok {
		d.tel.ReportDebug("unknown command", "command", name)
		return session.CourseID, nil
	}

	ctx, span := tracer.Start(ctx, "repl:"+cmd.name, trace.WithAttributes(
		attribute.String("session", session.ID.String()),
		attribute.String("user", session.User),
		attribute.Int64("course_id", session.CourseID),
	))
	defer span.End()
	if d.executed != nil {
		d.executed.Add(ctx, 1, metric.WithAttributes(attribute.String("command", cmd.name)))
	}

	next, err := cmd.run(ctx, d, session)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return session.CourseID, err
	}
	return next, nil
}

// Run picks the starting course then reads and executes commands until the
// course id drops to 0 or the input ends. A failing command is reported and
// the loop goes on.
func (d *Dispatcher) Run(ctx context.Context, session *Session) error {
	count, err := d.agg.CountCourses(ctx, session.User)
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Fprintln(d.out, NoCourses)
		return nil
	}

	if session.CourseID == 0 {
		session.CourseID, err = d.startingCourse(ctx, session.User)
		if err != nil {
			return err
		}
	}

	for session.CourseID > 0 {
		line, err := d.in.Prompt(ctx, CommandPrompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		d.tel.ReportDebug("executing", "command", line, "course_id", session.CourseID)

		next, err := d.Execute(ctx, *session, line)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			d.tel.ReportWarning(report_command, err, line)
			fmt.Fprintf(d.out, "error: %s\n", err)
			continue
		}
		session.CourseID = next
	}
	return nil
}

func (d *Dispatcher) startingCourse(ctx context.Context, user string) (int64, error) {
	id, err := d.agg.FindCourseByCode(ctx, user, d.defaultCode)
	if err != nil || id != 0 {
		return id, err
	}
	return d.agg.FirstCourse(ctx, user)
}

func (d *Dispatcher) println(value any) {
	fmt.Fprintln(d.out, value)
}

func (d *Dispatcher) newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(d.out)
	return t
}

func (d *Dispatcher) promptID(ctx context.Context, message string) (int64, error) {
	answer, err := d.in.Prompt(ctx, message)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid id", answer)
	}
	return id, nil
}

// suggestGroup returns the known group closest to name, or "" when nothing
// is close enough or name already matches a group.
func suggestGroup(name string, groups []string) string {
	best := ""
	bestScore := 0.0
	for _, group := range groups {
		if strings.EqualFold(group, name) {
			return ""
		}
		score := matchr.JaroWinkler(textutil.NormalizeName(name), textutil.NormalizeName(group), false)
		if score > bestScore {
			best = group
			bestScore = score
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}
	return best
}
