package main

import (
	"context"
	"fmt"
)

type Service interface {
	Run(ctx context.Context) error
}

// Worker runs one job at a time.
type Worker struct{}

func (w *Worker) Run(ctx context.Context) error {
	logStart()
	return helper(ctx)
}

func helper(ctx context.Context) error {
	fmt.Println("running")
	return nil
}

func logStart() {
	fmt.Println("start")
}

func main() {
	_ = (&Worker{}).Run(context.Background())
}
