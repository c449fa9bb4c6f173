package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/CijeTheCreator/consultify/internal/config"
	"github.com/CijeTheCreator/consultify/internal/consultation"
	"github.com/CijeTheCreator/consultify/internal/db"
	"github.com/CijeTheCreator/consultify/internal/directory"
	"github.com/CijeTheCreator/consultify/internal/email"
	"github.com/CijeTheCreator/consultify/internal/prescription"
	"github.com/CijeTheCreator/consultify/internal/store/rabbitmq"
)

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	dirRepo := directory.NewRepo(gdb)
	consRepo := consultation.NewRepo(gdb)
	prescSvc := prescription.NewService(gdb, consRepo, nil)

	sender := email.NewSender(email.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	})

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	if err := rabbitmq.DeclareTopology(ch, cfg.RabbitQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	concurrency := workerConcurrency()
	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("email worker started queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var job rabbitmq.EmailJob
				if err := json.Unmarshal(d.Body, &job); err != nil || job.PrescriptionID == "" {
					log.Printf("worker=%d bad message: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := handleJob(ctx, prescSvc, dirRepo, sender, job); err != nil {
					log.Printf("worker=%d job=%s failed cost=%s err=%v", workerID, job.JobID, time.Since(start), err)
					_ = d.Nack(false, false)
					continue
				}

				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed job=%s err=%v", workerID, job.JobID, err)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}

// handleJob loads the prescription and both participants, then sends the
// notification. Name lookups fail the job; it lands in the DLQ for
// inspection rather than going out half-addressed.
func handleJob(ctx context.Context, prescSvc *prescription.Service, dirRepo *directory.Repo, sender *email.Sender, job rabbitmq.EmailJob) error {
	p, err := prescSvc.Get(ctx, job.PrescriptionID)
	if err != nil {
		return err
	}

	patient, err := dirRepo.GetByID(ctx, p.PatientID)
	if err != nil {
		return err
	}
	doctor, err := dirRepo.GetByID(ctx, p.DoctorID)
	if err != nil {
		return err
	}

	if err := sender.SendPrescription(patient.Email, patient.Name, doctor.Name, p); err != nil {
		return err
	}

	log.Printf("prescription email sent job=%s prescription=%s to=%s", job.JobID, p.ID, patient.Email)
	return nil
}
