package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/talent-api/internal/redis"
	talentsnapshot "github.com/KirkDiggler/talent-api/internal/repositories/talent_snapshot"
)

func main() {
	redisURL := os.Getenv("TALENTS_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	client, err := redisclient.NewClient(redisURL, nil)
	if err != nil {
		log.Fatal("Failed to create Redis client:", err)
	}
	defer func() { _ = client.Close() }()
	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	repo, err := talentsnapshot.NewRedisRepository(&talentsnapshot.Config{
		Client: client,
		Clock:  clock.New(),
	})
	if err != nil {
		log.Fatal("Failed to create snapshot repository:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning for corrupted talent snapshots...")

	iter := client.Scan(ctx, 0, talentsnapshot.KeyPrefix+"*", 0).Iterator()

	var corruptedKeys []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++
		class := strings.TrimPrefix(key, talentsnapshot.KeyPrefix)

		out, err := repo.Get(ctx, talentsnapshot.GetInput{Class: class})
		switch {
		case errors.IsNotFound(err):
			// expired between the scan and the read
			continue
		case errors.IsDataLoss(err):
			fmt.Printf("✗ %s: %s\n", key, errors.GetMessage(err))
			corruptedKeys = append(corruptedKeys, key)
			continue
		case err != nil:
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		// snapshots written before failed payloads were refused
		if p := out.Snapshot.Payload; p.Error != "" || len(p.Talents) == 0 {
			fmt.Printf("✗ %s: unusable payload (error=%q, talents=%d)\n", key, p.Error, len(p.Talents))
			corruptedKeys = append(corruptedKeys, key)
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupted entries\n", checkedCount, len(corruptedKeys))

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Println("\nCorrupted keys:")
	for _, key := range corruptedKeys {
		fmt.Printf("  - %s\n", key)
	}

	// Ask for confirmation before deletion
	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}
	for _, key := range corruptedKeys {
		class := strings.TrimPrefix(key, talentsnapshot.KeyPrefix)
		if _, err := repo.Delete(ctx, talentsnapshot.DeleteInput{Class: class}); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nCleanup complete!")
}
