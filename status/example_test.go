package status_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonwraymond/statuskit/status"
)

func ExampleRegistry_Info() {
	reg := status.NewRegistry()
	reg.MustRegister("db.replica", func(context.Context) (status.Outcome, error) { return status.Plain(nil), nil })
	reg.MustRegister("db.primary", func(context.Context) (status.Outcome, error) { return status.Plain(nil), nil })

	_ = reg.Info(os.Stdout)
	fmt.Println(reg)
	// Output:
	// Registered status collectors (2):
	// db.primary
	// db.replica
	// <Registry collectors=[db.primary, db.replica]>
}

func ExampleEngine_Execute() {
	reg := status.NewRegistry()
	reg.MustRegister("queue.depth", func(context.Context) (status.Outcome, error) {
		return status.Structured(true, map[string]any{"value": 42}), nil
	})
	reg.MustRegister("queue.consumer", func(context.Context) (status.Outcome, error) {
		return status.Outcome{}, errors.New("boom")
	})
	reg.MustRegister("version", func(context.Context) (status.Outcome, error) {
		return status.Plain("1.4.2"), nil
	})

	envs, _ := status.NewEngine().Execute(context.Background(), reg, "queue*")
	for _, env := range envs {
		results, _ := json.Marshal(env.Results)
		fmt.Println(env.Name, env.Success, string(results), env.Error)
	}
	fmt.Printf("%+v\n", status.Summarize(envs))
	// Output:
	// queue.depth true {"success":true,"value":42} <nil>
	// queue.consumer false null boom
	// {Total:2 Succeeded:1 Failed:1}
}
