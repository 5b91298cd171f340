package validation

const (
	MaxAddressLength   = 128
	MaxShortTextLength = 64

	// Field names used in error messages
	SenderField      = "sender"
	RecipientField   = "recipient"
	BeneficiaryField = "beneficiary"
	SpenderField     = "spender"
	OwnerField       = "owner"
	AmountField      = "amount"
	AddressField     = "address"
	NameField        = "name"
	SymbolField      = "symbol"
)

var InjectionPatterns = []string{
	"${{", "{{", "}}", "${", "#{", "{%", "%}", "{{{", // templates/SSTI
	"%0a", "%0d", "%0a%0d", "%00", "%27", "%22", "%3c", "%3e", // encoded attacks (decode first)
	"${jndi:", "ldap://", "ldaps://", // JNDI/ldap
	"eval(", "exec(", "system(", "popen(", // dangerous funcs
}
