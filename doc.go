// Package dynamodblocal downloads, extracts, and supervises a local
// DynamoDB emulator process for use in test runs.
//
// The core functionality centers around the Manager type, which owns one
// instance configuration and at most one emulator subprocess:
//
//	mgr, err := dynamodblocal.NewManager(dynamodblocal.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Download the emulator (first run only) and spawn it
//	if err := mgr.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Stop()
//
//	st := mgr.Status()
//	fmt.Printf("instance %s on port %d\n", st.State, st.Port)
//
// Start is strict: calling it while an instance is already running fails
// with ErrAlreadyRunning. Stop is forgiving: stopping an instance that is
// not running is a no-op. The asymmetry is deliberate and part of the
// contract.
//
// # Provisioning
//
// The Downloader type fetches the emulator archive into a fixed local
// directory (.local_dynamodb by default) and extracts it. It can be used
// on its own, pointed at a different URL or a local archive, or replaced
// entirely through the Provisioner interface:
//
//	dl := dynamodblocal.NewDownloader(
//	    dynamodblocal.WithInstallDir(".cache/ddb"),
//	)
//	dir, err := dl.Provision(ctx, dynamodblocal.Source{})
//
// Provisioning is idempotent and performs no retries: a failed download or
// extraction surfaces immediately, and a partially populated install
// directory is left as-is.
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - One configuration, one subprocess per Manager (no shared registry)
//   - Explicit, typed errors for every failure mode
//   - Idempotent handle clearing (exit notification races with Stop)
//   - Injectable collaborators (Provisioner, ProcessRunner, path oracle)
//     so nothing in the lifecycle needs a real download or JVM under test
//
// The Manager does not wait for the emulator to accept connections;
// Readiness currently mirrors Liveness, and StatePending is reserved for
// a future protocol-level probe.
package dynamodblocal
