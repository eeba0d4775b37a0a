package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/questx-lab/nftmint/internal/model"
	"github.com/questx-lab/nftmint/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startList(cctx *cli.Context) error {
	if cctx.Bool("issued") {
		return s.listIssued(os.Stdout, cctx.String("owner"))
	}

	s.loadCollection()
	s.loadDomains()

	resp, err := s.collectionDomain.GetTokens(s.ctx, &model.GetTokensRequest{Owner: cctx.String("owner")})
	if err != nil {
		return err
	}

	if len(resp.Tokens) == 0 {
		xcontext.Logger(s.ctx).Infof("No token minted yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tOWNER\tIMAGE")
	for _, token := range resp.Tokens {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", token.ID, token.Name, token.OwnerDisplay, token.Image)
	}

	return w.Flush()
}

func (s *srv) listIssued(out io.Writer, owner string) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadDomains()

	resp, err := s.issuanceDomain.GetIssuances(s.ctx, &model.GetIssuancesRequest{Address: owner})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "UID\tNAME\tROYALTY BPS\tISSUED AT")
	for _, issuance := range resp.Issuances {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", issuance.UID, issuance.Name, issuance.RoyaltyBps, issuance.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "\n%d of %d vouchers issued by this service\n", len(resp.Issuances), resp.Total)

	return w.Flush()
}
