// Package provider runs storcli queries against a controller, locally or on a
// remote host, and hands back the raw text.
package provider

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"megaraid-health-check/internal/extract"
)

//go:generate mockgen -source=provider.go -destination=mock_provider.go -package=provider

// Query is a logical storcli query
type Query string

const (
	QueryVirtualDrives    Query = "vd-list"
	QueryPhysicalDrives   Query = "pd-list"
	QueryDriveDetail      Query = "pd-detail"
	QueryController       Query = "controller"
	QueryControllerAll    Query = "controller-all"
	QueryCacheVaultStatus Query = "cachevault-status"
	QueryCacheVaultBasic  Query = "cachevault-basic"
	QueryCacheVaultAll    Query = "cachevault-all"
	QueryBBUStatus        Query = "bbu-status"
	QueryBBUBasic         Query = "bbu-basic"
	QueryBBUAll           Query = "bbu-all"
	QueryForeignConfig    Query = "foreign"
	QueryRebuild          Query = "rebuild"
	QueryRebuildJSON      Query = "rebuild-json"
	QueryConsistencyCheck Query = "cc"
	QueryConsistencyJSON  Query = "cc-json"
	QueryPatrolRead       Query = "patrolread"
)

// queryArgs maps a query to its storcli arguments. %[1]s is the controller id.
var queryArgs = map[Query][]string{
	QueryVirtualDrives:    {"/c%[1]s/vall", "show"},
	QueryPhysicalDrives:   {"/c%[1]s/eall/sall", "show"},
	QueryDriveDetail:      {"/c%[1]s/eall/sall", "show", "all"},
	QueryController:       {"/c%[1]s", "show"},
	QueryControllerAll:    {"/c%[1]s", "show", "all"},
	QueryCacheVaultStatus: {"/c%[1]s/cv", "show", "status"},
	QueryCacheVaultBasic:  {"/c%[1]s/cv", "show"},
	QueryCacheVaultAll:    {"/c%[1]s/cv", "show", "all"},
	QueryBBUStatus:        {"/c%[1]s/bbu", "show", "status"},
	QueryBBUBasic:         {"/c%[1]s/bbu", "show"},
	QueryBBUAll:           {"/c%[1]s/bbu", "show", "all"},
	QueryForeignConfig:    {"/c%[1]s/fall", "show"},
	QueryRebuild:          {"/c%[1]s/eall/sall", "show", "rebuild"},
	QueryRebuildJSON:      {"/c%[1]s/eall/sall", "show", "rebuild", "J"},
	QueryConsistencyCheck: {"/c%[1]s/vall", "show", "cc"},
	QueryConsistencyJSON:  {"/c%[1]s/vall", "show", "cc", "J"},
	QueryPatrolRead:       {"/c%[1]s", "show", "patrolread"},
}

// Args returns the storcli arguments for the query on the given controller
func (q Query) Args(controller string) []string {
	tmpl, ok := queryArgs[q]
	if !ok {
		return nil
	}
	args := make([]string, len(tmpl))
	for i, a := range tmpl {
		if a[0] == '/' {
			a = fmt.Sprintf(a, controller)
		}
		args[i] = a
	}
	return args
}

// Result is the raw output of one query
type Result struct {
	Output   string
	ExitCode int
}

// Unsupported reports whether the controller rejected the query. The fact it
// was asking for is then treated as absent.
func (r Result) Unsupported() bool {
	return extract.Unsupported(r.Output)
}

// Provider runs queries against one controller. Errors are reserved for
// conditions that make the whole run indeterminate; a non-zero tool exit
// status is reported in Result.
type Provider interface {
	Run(ctx context.Context, q Query) (Result, error)
	// Target names the host or tool being queried
	Target() string
}

var (
	ErrTimeout     = errors.New("query timed out")
	ErrToolMissing = errors.New("query tool not found")
	ErrConnection  = errors.New("connection failed")
)
