package evm

// governanceABI describes the portion of the governance contract the
// engine interacts with. The governance contract creates one DAO contract
// per governance group and records its address.
const governanceABI = `[
	{"type":"function","name":"daoCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"daoAddress","stateMutability":"view","inputs":[{"name":"daoId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"event","name":"DAOCreated","inputs":[{"name":"daoId","type":"uint256","indexed":true},{"name":"daoAddress","type":"address","indexed":false}]}
]`

// daoABI describes the portion of the per-DAO contract the engine
// interacts with.
const daoABI = `[
	{"type":"function","name":"submitProposal","stateMutability":"nonpayable","inputs":[{"name":"applicant","type":"address"},{"name":"proposalType","type":"uint8"},{"name":"description","type":"string"}],"outputs":[]},
	{"type":"function","name":"submitVote","stateMutability":"nonpayable","inputs":[{"name":"proposalIndex","type":"uint256"},{"name":"vote","type":"bool"}],"outputs":[]},
	{"type":"function","name":"processProposal","stateMutability":"nonpayable","inputs":[{"name":"proposalIndex","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"getAllProposals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"proposer","type":"address"},{"name":"applicant","type":"address"},{"name":"proposalType","type":"uint8"},{"name":"description","type":"string"},{"name":"yesVotes","type":"uint256"},{"name":"noVotes","type":"uint256"},{"name":"didPass","type":"bool"},{"name":"processed","type":"bool"},{"name":"startingPeriod","type":"uint256"}]}]},
	{"type":"function","name":"members","stateMutability":"view","inputs":[{"name":"member","type":"address"}],"outputs":[{"name":"role","type":"uint8"},{"name":"exists","type":"bool"},{"name":"shares","type":"uint256"}]},
	{"type":"event","name":"SubmitProposal","inputs":[{"name":"proposalIndex","type":"uint256","indexed":true},{"name":"proposer","type":"address","indexed":true},{"name":"applicant","type":"address","indexed":false},{"name":"proposalType","type":"uint8","indexed":false},{"name":"description","type":"string","indexed":false}]},
	{"type":"event","name":"SubmitVote","inputs":[{"name":"proposalIndex","type":"uint256","indexed":true},{"name":"voter","type":"address","indexed":true},{"name":"vote","type":"bool","indexed":false}]},
	{"type":"event","name":"ProcessProposal","inputs":[{"name":"proposalIndex","type":"uint256","indexed":true},{"name":"didPass","type":"bool","indexed":false}]}
]`
