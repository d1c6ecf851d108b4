package mocks

//go:generate mockgen -destination=availability.go -package=mocks -mock_names=Repository=MockAvailabilityRepository github.com/alanyang/shift-router/internal/port/availability Repository
//go:generate mockgen -destination=distributor.go -package=mocks -mock_names=Distributor=MockDistributor github.com/alanyang/shift-router/internal/port/distributor Distributor
//go:generate mockgen -destination=eventbus.go -package=mocks -mock_names=EventBus=MockEventBus github.com/alanyang/shift-router/internal/port/eventbus EventBus
//go:generate mockgen -destination=ledger.go -package=mocks -mock_names=Ledger=MockLedger github.com/alanyang/shift-router/internal/port/ledger Ledger
//go:generate mockgen -destination=locker.go -package=mocks -mock_names=AdvisoryLocker=MockAdvisoryLocker github.com/alanyang/shift-router/internal/port/locker AdvisoryLocker
//go:generate mockgen -destination=metrics.go -package=mocks -mock_names=Recorder=MockMetricsRecorder github.com/alanyang/shift-router/internal/port/metrics Recorder
//go:generate mockgen -destination=operator.go -package=mocks -mock_names=Repository=MockOperatorRepository github.com/alanyang/shift-router/internal/port/operator Repository
//go:generate mockgen -destination=outcome.go -package=mocks -mock_names=Log=MockOutcomeLog github.com/alanyang/shift-router/internal/port/outcome Log
//go:generate mockgen -destination=runstate.go -package=mocks -mock_names=Store=MockRunStateStore github.com/alanyang/shift-router/internal/port/runstate Store
//go:generate mockgen -destination=tasksource.go -package=mocks -mock_names=Source=MockTaskSource github.com/alanyang/shift-router/internal/port/tasksource Source
