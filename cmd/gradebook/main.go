package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gradebook-web/gradebook"
	"github.com/gradebook-web/gradebook/console"
	"github.com/gradebook-web/gradebook/store"
	"github.com/gradebook-web/gradebook/store/sqlite"
	"github.com/gradebook-web/gradebook/webapp"
)

const defaultPort = "8080"

func main() {
	var (
		consoleMode = flag.Bool("console", false, "run the interactive terminal front end instead of the web server")
		dbPath      = flag.String("db", "", "sqlite database path (empty runs in memory)")
		reportsDir  = flag.String("reports", "reports", "directory for generated result sheets")
	)
	flag.Parse()

	st, err := openStore(*dbPath)
	if err != nil {
		log.Fatalf("store: %s", err)
	}
	defer st.Close()

	if *consoleMode {
		if err = console.New(st, *reportsDir, os.Stdin, os.Stdout).Run(); err != nil {
			log.Fatalf("console: %s", err)
		}

		return
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	addr := ":" + port

	app := gradebook.New(addr).
		NotifyOnStart(func() {
			log.Printf("listening on %s", addr)
		})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("shutting down")
		app.GracefulStop()
	}()

	if err = app.Serve(webapp.New(st, *reportsDir).Router()); err != nil && !errors.Is(err, gradebook.ErrShutdown) {
		log.Fatalf("serve: %s", err)
	}
}

func openStore(path string) (store.Store, error) {
	if path == "" {
		return store.NewMemory(), nil
	}

	return sqlite.Open(path)
}
