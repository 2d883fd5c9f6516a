package enums

type Decision string

const (
	DecisionSelfAuthored   Decision = "self_authored"
	DecisionNoGuildContext Decision = "no_guild_context"
	DecisionOwnerExempt    Decision = "owner_exempt"
	DecisionUserExempt     Decision = "user_exempt"
	DecisionNotMonitored   Decision = "not_monitored"
	DecisionEnforce        Decision = "enforce"
)

var AllDecisions = []Decision{
	DecisionSelfAuthored,
	DecisionNoGuildContext,
	DecisionOwnerExempt,
	DecisionUserExempt,
	DecisionNotMonitored,
	DecisionEnforce,
}
