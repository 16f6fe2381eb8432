package config

type WorkerKeyStruct struct {
	StatsRefreshQueue string
}

var WorkerKey = &WorkerKeyStruct{
	StatsRefreshQueue: "stats_refresh_queue",
}
