package health

import (
	"strings"

	"megaraid-health-check/internal/provider"
)

const fixtureVDList = `Controller = 0
Status = Success
Description = None


Virtual Drives :
==============

---------------------------------------------------------------
DG/VD TYPE  State Access Consist Cache Cac sCC     Size Name
---------------------------------------------------------------
0/238 RAID1 Optl  RW     Yes     RWBD  -   OFF 1.089 TB LDName_00
---------------------------------------------------------------
`

const fixturePDList = `Controller = 0
Status = Success
Description = Show Drive Information Succeeded.


Drive Information :
=================

-------------------------------------------------------------------------------
EID:Slt DID State DG     Size Intf Med SED PI SeSz Model                Sp Type
-------------------------------------------------------------------------------
252:0     8 Onln   0 1.090 TB SAS  HDD N   N  512B ST1200MM0088         U  -
252:1     9 Onln   0 1.090 TB SAS  HDD N   N  512B ST1200MM0088         U  -
-------------------------------------------------------------------------------
`

const fixturePDDetail = `Controller = 0
Status = Success
Description = Show Drive Information Succeeded.


Drive /c0/e252/s0 :
=================

-------------------------------------------------------------------------------
EID:Slt DID State DG     Size Intf Med SED PI SeSz Model                Sp Type
-------------------------------------------------------------------------------
252:0     8 Onln   0 1.090 TB SAS  HDD N   N  512B ST1200MM0088         U  -
-------------------------------------------------------------------------------


Drive /c0/e252/s0 - Detailed Information :
========================================

Drive /c0/e252/s0 State :
=======================
Shield Counter = 0
Media Error Count = 0
Other Error Count = 0
Drive Temperature =  31C (87.80 F)
Predictive Failure Count = 0
S.M.A.R.T alert flagged by drive = No


Drive /c0/e252/s1 :
=================

-------------------------------------------------------------------------------
EID:Slt DID State DG     Size Intf Med SED PI SeSz Model                Sp Type
-------------------------------------------------------------------------------
252:1     9 Onln   0 1.090 TB SAS  HDD N   N  512B ST1200MM0088         U  -
-------------------------------------------------------------------------------


Drive /c0/e252/s1 - Detailed Information :
========================================

Drive /c0/e252/s1 State :
=======================
Shield Counter = 0
Media Error Count = 0
Other Error Count = 0
Drive Temperature =  33C (91.40 F)
Predictive Failure Count = 0
S.M.A.R.T alert flagged by drive = No
`

const fixtureController = `Controller = 0
Status = Success
Description = None

Product Name = PERC H730P Mini
Virtual Drives = 1
Physical Drives = 2
`

const fixtureControllerAll = `Controller = 0
Status = Success
Description = None

Status :
======
Controller Status = Optimal
Memory Correctable Errors = 0
`

const fixtureCacheVault = `Controller = 0
Status = Success
Description = None


Cachevault_Info :
===============

--------------------
Property    Value
--------------------
State       Optimal
Temperature 28 C
--------------------
`

const fixtureUnsupported = `Controller = 0
Status = Failure
Description = Unsupported Command
`

const fixtureForeignNone = `Controller = 0
Status = Success
Description = Couldn't find any foreign Configuration
`

const fixtureCCIdle = `VD Operation Progress% Status          Estimited Time Left
-----------------------------------------------------------
 0 CC        -        Not in progress -
`

const fixturePatrolStopped = `Ctrl_Prop               Value
-----------------------------------------
PR Mode                 Auto
PR Execution Delay      168 hours
PR Current State        Stopped
`

// optimalOutputs is a healthy single mirror with a CacheVault
func optimalOutputs() map[provider.Query]string {
	return map[provider.Query]string{
		provider.QueryVirtualDrives:    fixtureVDList,
		provider.QueryPhysicalDrives:   fixturePDList,
		provider.QueryDriveDetail:      fixturePDDetail,
		provider.QueryController:       fixtureController,
		provider.QueryControllerAll:    fixtureControllerAll,
		provider.QueryCacheVaultStatus: fixtureCacheVault,
		provider.QueryForeignConfig:    fixtureForeignNone,
		provider.QueryConsistencyCheck: fixtureCCIdle,
		provider.QueryPatrolRead:       fixturePatrolStopped,
	}
}

// replace returns text with the first occurrence of old swapped for new
func replace(text, old, new string) string {
	return strings.Replace(text, old, new, 1)
}
