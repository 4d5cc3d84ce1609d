package dto

// ChartOfAccounts is the YAML seed file format for branches and their accounts.
type ChartOfAccounts struct {
	Branches []ChartBranch `yaml:"branches"`
}

// ChartBranch is one branch of a seed file.
type ChartBranch struct {
	ID       string         `yaml:"id"`
	Code     string         `yaml:"code"`
	Name     string         `yaml:"name"`
	Inactive bool           `yaml:"inactive"`
	Accounts []ChartAccount `yaml:"accounts"`
}

// ChartAccount is one account of a seed file. ID is derived from branch and code when empty;
// NormalBalance defaults from Type.
type ChartAccount struct {
	ID            string `yaml:"id"`
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	NormalBalance string `yaml:"normalBalance"`
	Header        bool   `yaml:"header"`
	Inactive      bool   `yaml:"inactive"`
	Description   string `yaml:"description"`
}
